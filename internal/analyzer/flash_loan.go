package analyzer

import (
	"fmt"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// FlashLoanAnalyzer detects flash-loan-wrapped arbitrage within a single
// transaction using weighted multi-signal scoring.
type FlashLoanAnalyzer struct {
	logger *logger.Logger
	parser *events.Parser

	// Detection thresholds
	minSwapCount             int
	priceImpactThreshold     uint64 // single-swap impact considered high
	highPriceImpactThreshold uint64 // cumulative impact considered high
	largeLoanAmount          uint64
}

// NewFlashLoanAnalyzer creates a flash loan analyzer with default thresholds
func NewFlashLoanAnalyzer(log *logger.Logger, parser *events.Parser) *FlashLoanAnalyzer {
	return &FlashLoanAnalyzer{
		logger:                   log.Named("flash-loan-analyzer"),
		parser:                   parser,
		minSwapCount:             2,
		priceImpactThreshold:     500,  // 5%
		highPriceImpactThreshold: 1000, // 10%
		largeLoanAmount:          1_000_000_000,
	}
}

// Analyze inspects one transaction and returns a risk event when the
// flash-loan arbitrage score crosses the reporting threshold.
func (a *FlashLoanAnalyzer) Analyze(tx *sui.ExecutedTransaction, ctx *risk.DetectionContext) *risk.RiskEvent {
	parsed := a.parser.Parse(tx.Events)

	// A flash loan attack requires both borrow and repay in the same tx
	if !parsed.HasCompleteFlashLoan() {
		return nil
	}

	// A bare flash loan with no swaps is not an attack
	swaps := parsed.Swaps
	if len(swaps) == 0 {
		return nil
	}

	circular := detectCircularTrading(swaps)
	uniquePools := countUniquePools(swaps)
	totalImpact := parsed.TotalSwapPriceImpact()
	maxImpact := parsed.MaxSwapPriceImpact()

	var score uint32

	// Circular trading is highly suspicious
	if circular {
		score += 30
	}

	// Multiple swaps indicate complex arbitrage
	if len(swaps) >= 3 {
		score += 20
	} else if len(swaps) >= a.minSwapCount {
		score += 10
	}

	// High cumulative price impact
	if totalImpact > a.highPriceImpactThreshold*2 {
		score += 25
	} else if totalImpact > a.highPriceImpactThreshold {
		score += 15
	}

	// Single high-impact swap
	if maxImpact > a.priceImpactThreshold {
		score += 15
	}

	// Multi-pool arbitrage
	if uniquePools >= 3 {
		score += 15
	} else if uniquePools >= 2 {
		score += 10
	}

	// Large flash loan amount
	for _, fl := range parsed.FlashLoansTaken {
		if fl.Amount > a.largeLoanAmount {
			score += 10
			break
		}
	}

	if score < 30 {
		return nil
	}

	level := flashLoanLevel(score)

	suffix := ""
	if circular {
		suffix = ", circular trading pattern"
	}
	description := fmt.Sprintf(
		"Flash loan arbitrage detected: %d swaps across %d pools, %s total price impact%s",
		len(swaps), uniquePools, formatBps(totalImpact), suffix,
	)

	return risk.NewRiskEvent(risk.TypeFlashLoanAttack, level, ctx, description).
		WithDetail("flash_loan_count", len(parsed.FlashLoansTaken)).
		WithDetail("total_borrowed", formatAmount(parsed.TotalFlashLoanAmount())).
		WithDetail("swap_count", len(swaps)).
		WithDetail("unique_pools", uniquePools).
		WithDetail("circular_trading", circular).
		WithDetail("total_price_impact", formatBps(totalImpact)).
		WithDetail("max_price_impact", formatBps(maxImpact)).
		WithDetail("risk_score", score)
}

// flashLoanLevel maps a flash loan risk score to a level
func flashLoanLevel(score uint32) risk.RiskLevel {
	switch {
	case score >= 85:
		return risk.LevelCritical
	case score >= 70:
		return risk.LevelHigh
	case score >= 50:
		return risk.LevelMedium
	default:
		return risk.LevelLow
	}
}

// detectCircularTrading reports whether the token type consumed by the
// first swap reappears as the input of a later swap (A→B→…→A)
func detectCircularTrading(swaps []events.Swap) bool {
	if len(swaps) < 2 {
		return false
	}
	start := swaps[0].TokenInType
	for _, s := range swaps[1:] {
		if s.TokenInType == start {
			return true
		}
	}
	return false
}

// countUniquePools counts distinct pool ids across the swaps
func countUniquePools(swaps []events.Swap) int {
	pools := make(map[string]struct{}, len(swaps))
	for _, s := range swaps {
		pools[s.PoolID] = struct{}{}
	}
	return len(pools)
}
