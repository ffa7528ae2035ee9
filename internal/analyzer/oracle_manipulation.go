package analyzer

import (
	"fmt"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// OracleManipulationAnalyzer detects lending exploitation through DEX
// oracle manipulation: a flash loan funds a large swap that inflates the
// oracle price, a borrow extracts value against the inflated collateral,
// and the pool is swapped back before repayment.
type OracleManipulationAnalyzer struct {
	logger *logger.Logger
	parser *events.Parser

	// Minimum price deviation to flag, in basis points
	minPriceDeviation uint64
	// Minimum borrow amount to analyze
	minBorrowAmount uint64
	// Swap impact floor for price-moving swaps
	largeSwapImpact uint64
}

// OracleConfig tunes the oracle manipulation analyzer
type OracleConfig struct {
	MinPriceDeviationBps uint64
	MinBorrowAmount      uint64
}

// NewOracleManipulationAnalyzer creates an analyzer with default thresholds
func NewOracleManipulationAnalyzer(log *logger.Logger, parser *events.Parser) *OracleManipulationAnalyzer {
	return NewOracleManipulationAnalyzerWithConfig(log, parser, OracleConfig{
		MinPriceDeviationBps: 1000,        // 10%
		MinBorrowAmount:      100_000_000, // 100 tokens
	})
}

// NewOracleManipulationAnalyzerWithConfig creates an analyzer with custom thresholds
func NewOracleManipulationAnalyzerWithConfig(log *logger.Logger, parser *events.Parser, cfg OracleConfig) *OracleManipulationAnalyzer {
	if cfg.MinPriceDeviationBps == 0 {
		cfg.MinPriceDeviationBps = 1000
	}
	if cfg.MinBorrowAmount == 0 {
		cfg.MinBorrowAmount = 100_000_000
	}
	return &OracleManipulationAnalyzer{
		logger:            log.Named("oracle-analyzer"),
		parser:            parser,
		minPriceDeviation: cfg.MinPriceDeviationBps,
		minBorrowAmount:   cfg.MinBorrowAmount,
		largeSwapImpact:   500,
	}
}

// Analyze correlates flash loan, large swap, lending borrow and price
// divergence within a single transaction.
func (a *OracleManipulationAnalyzer) Analyze(tx *sui.ExecutedTransaction, ctx *risk.DetectionContext) *risk.RiskEvent {
	parsed := a.parser.Parse(tx.Events)

	if !parsed.HasCompleteFlashLoan() {
		return nil
	}
	flashLoanAmount := parsed.FlashLoansTaken[0].Amount

	largeSwaps := a.largeSwaps(parsed)
	if len(largeSwaps) == 0 {
		return nil
	}

	borrow := a.firstLargeBorrow(parsed)
	if borrow == nil {
		return nil
	}

	// Note: emission order between the swap and the borrow is not checked;
	// simulated exploits interleave them both ways.

	oraclePrice := borrow.OraclePrice
	normalPrice := estimateNormalPrice(largeSwaps[0])
	if oraclePrice == 0 || normalPrice == 0 {
		return nil
	}

	var deviation uint64
	if oraclePrice > normalPrice {
		deviation = mulDiv(oraclePrice-normalPrice, 10000, normalPrice)
	} else {
		deviation = mulDiv(normalPrice-oraclePrice, 10000, oraclePrice)
	}

	if deviation < a.minPriceDeviation {
		return nil
	}

	// Protocol loss if the price returns to normal
	realCollateral := mulDiv(borrow.CollateralValue, normalPrice, oraclePrice)
	var protocolLoss uint64
	if borrow.BorrowAmount > realCollateral {
		protocolLoss = borrow.BorrowAmount - realCollateral
	}

	var score uint32

	// Flash loan presence
	score += 20

	switch {
	case deviation >= 5000:
		score += 40
	case deviation >= 2000:
		score += 30
	case deviation >= 1000:
		score += 20
	}

	switch {
	case borrow.BorrowAmount > 10_000_000_000:
		score += 20
	case borrow.BorrowAmount > 1_000_000_000:
		score += 15
	}

	switch {
	case protocolLoss > borrow.BorrowAmount/2:
		score += 20
	case protocolLoss > 0:
		score += 10
	}

	// Abnormally high health factor suggests inflated collateral pricing
	if borrow.HealthFactor > 15000 {
		score += 10
	}

	if score < 40 {
		return nil
	}

	level := oracleLevel(score)

	description := fmt.Sprintf(
		"Oracle manipulation: %s price inflation, $%s borrow, $%s potential protocol loss",
		formatBps(deviation),
		formatAmount(borrow.BorrowAmount/1_000_000),
		formatAmount(protocolLoss/1_000_000),
	)

	return risk.NewRiskEvent(risk.TypeOracleManipulation, level, ctx, description).
		WithDetail("flash_loan_amount", formatAmount(flashLoanAmount)).
		WithDetail("swap_count", len(largeSwaps)).
		WithDetail("oracle_price", formatAmount(oraclePrice)).
		WithDetail("normal_price", formatAmount(normalPrice)).
		WithDetail("price_deviation", formatBps(deviation)).
		WithDetail("borrow_amount", formatAmount(borrow.BorrowAmount)).
		WithDetail("collateral_value", formatAmount(borrow.CollateralValue)).
		WithDetail("real_collateral_value", formatAmount(realCollateral)).
		WithDetail("protocol_loss", formatAmount(protocolLoss)).
		WithDetail("health_factor", borrow.HealthFactor).
		WithDetail("risk_score", score)
}

// oracleLevel maps an oracle manipulation risk score to a level
func oracleLevel(score uint32) risk.RiskLevel {
	switch {
	case score >= 80:
		return risk.LevelCritical
	case score >= 60:
		return risk.LevelHigh
	default:
		return risk.LevelMedium
	}
}

// largeSwaps filters swaps that could move the pool price
func (a *OracleManipulationAnalyzer) largeSwaps(parsed *events.ParsedEvents) []events.Swap {
	var out []events.Swap
	for _, s := range parsed.Swaps {
		if s.PriceImpactBps >= a.largeSwapImpact {
			out = append(out, s)
		}
	}
	return out
}

// firstLargeBorrow returns the first borrow above the analysis floor
func (a *OracleManipulationAnalyzer) firstLargeBorrow(parsed *events.ParsedEvents) *events.BorrowEvent {
	for _, b := range parsed.Borrows {
		if b.BorrowAmount >= a.minBorrowAmount {
			return b
		}
	}
	return nil
}

// estimateNormalPrice reconstructs the pre-swap pool price from the
// post-swap reserves by inverting the first large swap. Returns 0 when the
// reconstruction underflows or the pre-swap reserve is empty.
func estimateNormalPrice(s events.Swap) uint64 {
	var reserveAPre, reserveBPre uint64
	if s.TokenIn {
		// A→B: amount_in entered reserve A, amount_out left reserve B
		if s.ReserveA < s.AmountIn {
			return 0
		}
		reserveAPre = s.ReserveA - s.AmountIn
		reserveBPre = s.ReserveB + s.AmountOut
	} else {
		// B→A: amount_out left reserve A, amount_in entered reserve B
		reserveAPre = s.ReserveA + s.AmountOut
		if s.ReserveB < s.AmountIn {
			return 0
		}
		reserveBPre = s.ReserveB - s.AmountIn
	}

	if reserveAPre == 0 {
		return 0
	}
	return mulDiv(reserveBPre, 1_000_000_000, reserveAPre)
}
