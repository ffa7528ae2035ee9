package analyzer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// PriceAnalyzer detects direct price manipulation by combining TWAP oracle
// deviation with per-swap trade impact.
type PriceAnalyzer struct {
	logger *logger.Logger
	parser *events.Parser

	// Detection thresholds
	highPriceImpactThreshold     uint64 // 10%
	criticalPriceImpactThreshold uint64 // 20%
	twapDeviationThreshold       uint64 // 5%
	highTwapDeviationThreshold   uint64 // 10%
	largeTradeRatio              decimal.Decimal
	criticalTradeRatio           decimal.Decimal
}

// NewPriceAnalyzer creates a price analyzer with default thresholds
func NewPriceAnalyzer(log *logger.Logger, parser *events.Parser) *PriceAnalyzer {
	return &PriceAnalyzer{
		logger:                       log.Named("price-analyzer"),
		parser:                       parser,
		highPriceImpactThreshold:     1000,
		criticalPriceImpactThreshold: 2000,
		twapDeviationThreshold:       500,
		highTwapDeviationThreshold:   1000,
		largeTradeRatio:              decimal.NewFromFloat(0.15),
		criticalTradeRatio:           decimal.NewFromFloat(0.30),
	}
}

// Analyze scores the transaction's price signals and returns a risk event
// when the combined score crosses the reporting threshold.
func (a *PriceAnalyzer) Analyze(tx *sui.ExecutedTransaction, ctx *risk.DetectionContext) *risk.RiskEvent {
	parsed := a.parser.Parse(tx.Events)

	twap := firstTWAP(parsed)
	swaps := parsed.Swaps

	// Need at least one signal to proceed
	if twap == nil && len(swaps) == 0 {
		return nil
	}

	var score uint32
	var maxImpact uint64
	maxRatio := decimal.Zero
	var twapDeviation uint64

	// Signal 1: direct price impact from swaps
	if len(swaps) > 0 {
		maxImpact = parsed.MaxSwapPriceImpact()

		for _, s := range swaps {
			depth := s.ReserveA
			if s.ReserveB < depth {
				depth = s.ReserveB
			}
			if depth == 0 {
				continue
			}
			ratio := decimal.NewFromUint64(s.AmountIn).Div(decimal.NewFromUint64(depth))
			if ratio.GreaterThan(maxRatio) {
				maxRatio = ratio
			}
		}

		if maxImpact >= a.criticalPriceImpactThreshold {
			score += 40
		} else if maxImpact >= a.highPriceImpactThreshold {
			score += 30
		} else if maxImpact >= 500 {
			score += 15
		}

		if maxRatio.GreaterThan(a.criticalTradeRatio) {
			score += 25
		} else if maxRatio.GreaterThan(a.largeTradeRatio) {
			score += 15
		}
	}

	// Signal 2: TWAP deviation reported by the oracle
	if twap != nil {
		twapDeviation = twap.PriceDeviationBps

		if twapDeviation >= a.criticalPriceImpactThreshold {
			score += 25
		} else if twapDeviation >= a.highTwapDeviationThreshold {
			score += 15
		} else if twapDeviation >= a.twapDeviationThreshold {
			score += 5
		}
	}

	// Signal 3: explicit deviation flag from the oracle
	if len(parsed.PriceDeviations) > 0 {
		score += 10
	}

	// Signal 4: repeated same-pool high-impact swaps (pump pattern)
	if isPumpPattern(swaps) {
		score += 10
	}

	if score < 25 {
		return nil
	}

	level := priceLevel(score)

	ratioPct := maxRatio.Mul(decimal.NewFromInt(100))
	var description string
	if twap != nil {
		description = fmt.Sprintf(
			"Price manipulation: %s price impact, %s TWAP deviation (ratio: %s%% of pool)",
			formatBps(maxImpact), formatBps(twapDeviation), ratioPct.StringFixed(2),
		)
	} else {
		description = fmt.Sprintf(
			"High price impact: %s in single swap (ratio: %s%% of pool depth)",
			formatBps(maxImpact), ratioPct.StringFixed(2),
		)
	}

	event := risk.NewRiskEvent(risk.TypePriceManipulation, level, ctx, description).
		WithDetail("max_price_impact", formatBps(maxImpact)).
		WithDetail("swap_count", len(swaps)).
		WithDetail("swap_to_depth_ratio", ratioPct.StringFixed(2)+"%").
		WithDetail("risk_score", score)

	if twap != nil {
		event = event.
			WithDetail("twap_deviation", formatBps(twap.PriceDeviationBps)).
			WithDetail("spot_price", formatAmount(twap.SpotPriceA)).
			WithDetail("twap_price", formatAmount(twap.TwapPriceA)).
			WithDetail("pool_id", twap.PoolID)
	}

	return event
}

// priceLevel maps a price manipulation risk score to a level
func priceLevel(score uint32) risk.RiskLevel {
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

// firstTWAP returns the first TWAP update in emission order, if any
func firstTWAP(parsed *events.ParsedEvents) *events.TWAPUpdated {
	if len(parsed.TWAPUpdates) == 0 {
		return nil
	}
	return parsed.TWAPUpdates[0]
}

// isPumpPattern reports whether the transaction repeatedly pushed the same
// pool with non-trivial impact
func isPumpPattern(swaps []events.Swap) bool {
	if len(swaps) < 2 {
		return false
	}
	firstPool := swaps[0].PoolID
	for _, s := range swaps {
		if s.PoolID != firstPool || s.PriceImpactBps < 100 {
			return false
		}
	}
	return true
}
