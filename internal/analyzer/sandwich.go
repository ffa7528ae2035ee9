package analyzer

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// SwapPattern is one observed swap kept in the cross-transaction buffer
type SwapPattern struct {
	TxDigest       string
	Sender         string
	PoolID         string
	Checkpoint     int64
	TimestampMs    int64
	Direction      bool // true = A→B
	AmountIn       uint64
	AmountOut      uint64
	PriceImpactBps uint64
}

// SandwichMatch is a detected front-run → victim → back-run triple
type SandwichMatch struct {
	FrontRun       SwapPattern
	Victim         SwapPattern
	BackRun        SwapPattern
	AttackerProfit uint64
	VictimLossBps  uint64
}

// SandwichConfig tunes the cross-transaction buffer and matching window
type SandwichConfig struct {
	MaxBufferSize         int
	MaxCheckpointDistance int64
	MinPriceImpactBps     uint64
}

// DefaultSandwichConfig returns the production defaults
func DefaultSandwichConfig() SandwichConfig {
	return SandwichConfig{
		MaxBufferSize:         1000,
		MaxCheckpointDistance: 100,
		MinPriceImpactBps:     100, // 1%
	}
}

// SandwichAnalyzer detects sandwich attacks by correlating swaps across
// transactions. The buffer is the only state shared across transactions;
// Analyze decodes the swaps first, then holds the mutex across search,
// insert and prune so they are atomic with respect to concurrent callers.
type SandwichAnalyzer struct {
	logger *logger.Logger
	parser *events.Parser

	mu      sync.Mutex
	buffer  []SwapPattern
	emitted map[string]struct{}

	maxBufferSize         int
	maxCheckpointDistance int64
	minPriceImpact        uint64
}

// NewSandwichAnalyzer creates a sandwich analyzer with default tuning
func NewSandwichAnalyzer(log *logger.Logger, parser *events.Parser) *SandwichAnalyzer {
	return NewSandwichAnalyzerWithConfig(log, parser, DefaultSandwichConfig())
}

// NewSandwichAnalyzerWithConfig creates a sandwich analyzer with custom tuning
func NewSandwichAnalyzerWithConfig(log *logger.Logger, parser *events.Parser, cfg SandwichConfig) *SandwichAnalyzer {
	if cfg.MaxBufferSize <= 0 {
		cfg.MaxBufferSize = 1000
	}
	if cfg.MaxCheckpointDistance <= 0 {
		cfg.MaxCheckpointDistance = 100
	}
	return &SandwichAnalyzer{
		logger:                log.Named("sandwich-analyzer"),
		parser:                parser,
		buffer:                make([]SwapPattern, 0, cfg.MaxBufferSize),
		emitted:               make(map[string]struct{}),
		maxBufferSize:         cfg.MaxBufferSize,
		maxCheckpointDistance: cfg.MaxCheckpointDistance,
		minPriceImpact:        cfg.MinPriceImpactBps,
	}
}

// Analyze matches the transaction's swaps against the buffer, then inserts
// them and prunes entries outside the checkpoint horizon. May emit multiple
// events when several swaps each complete a sandwich.
func (a *SandwichAnalyzer) Analyze(tx *sui.ExecutedTransaction, ctx *risk.DetectionContext) []*risk.RiskEvent {
	patterns := a.extractPatterns(tx, ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	var detected []*risk.RiskEvent
	for i := range patterns {
		if match := a.findSandwich(&patterns[i]); match != nil {
			key := match.FrontRun.TxDigest + "|" + match.Victim.TxDigest + "|" + match.BackRun.TxDigest
			if _, dup := a.emitted[key]; dup {
				continue
			}
			a.emitted[key] = struct{}{}
			detected = append(detected, a.buildEvent(match))
		}
	}

	for _, p := range patterns {
		a.insert(p)
	}
	a.prune(ctx.Checkpoint)

	return detected
}

// BufferSize returns the current buffer occupancy, for monitoring
func (a *SandwichAnalyzer) BufferSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffer)
}

// extractPatterns decodes the transaction's swaps above the impact floor
func (a *SandwichAnalyzer) extractPatterns(tx *sui.ExecutedTransaction, ctx *risk.DetectionContext) []SwapPattern {
	parsed := a.parser.Parse(tx.Events)

	var patterns []SwapPattern
	for _, s := range parsed.Swaps {
		if s.PriceImpactBps < a.minPriceImpact {
			continue
		}
		patterns = append(patterns, SwapPattern{
			TxDigest:       ctx.TxDigest,
			Sender:         ctx.Sender,
			PoolID:         s.PoolID,
			Checkpoint:     ctx.Checkpoint,
			TimestampMs:    ctx.TimestampMs,
			Direction:      s.TokenIn,
			AmountIn:       s.AmountIn,
			AmountOut:      s.AmountOut,
			PriceImpactBps: s.PriceImpactBps,
		})
	}
	return patterns
}

// findSandwich treats backRun as a candidate back-run and searches the
// buffer for a matching front-run and victim. Caller holds the mutex.
func (a *SandwichAnalyzer) findSandwich(backRun *SwapPattern) *SandwichMatch {
	for i := range a.buffer {
		front := &a.buffer[i]
		if front.PoolID != backRun.PoolID ||
			front.Sender != backRun.Sender ||
			front.Direction == backRun.Direction ||
			front.Checkpoint > backRun.Checkpoint ||
			backRun.Checkpoint-front.Checkpoint > a.maxCheckpointDistance {
			continue
		}

		for j := range a.buffer {
			victim := &a.buffer[j]
			if victim.PoolID != backRun.PoolID ||
				victim.Sender == backRun.Sender ||
				victim.Direction != front.Direction {
				continue
			}
			// Victim must lie between front-run and back-run; timestamps
			// break ties within a checkpoint
			if victim.Checkpoint < front.Checkpoint || victim.Checkpoint > backRun.Checkpoint {
				continue
			}
			if victim.Checkpoint == front.Checkpoint && victim.TimestampMs < front.TimestampMs {
				continue
			}
			if victim.Checkpoint == backRun.Checkpoint && victim.TimestampMs > backRun.TimestampMs {
				continue
			}

			var profit uint64
			if backRun.AmountOut > front.AmountIn {
				profit = backRun.AmountOut - front.AmountIn
			}

			expected := estimateExpectedOutput(victim, front)
			var lossBps uint64
			if expected > victim.AmountOut {
				lossBps = mulDiv(expected-victim.AmountOut, 10000, expected)
			}

			return &SandwichMatch{
				FrontRun:       *front,
				Victim:         *victim,
				BackRun:        *backRun,
				AttackerProfit: profit,
				VictimLossBps:  lossBps,
			}
		}
	}
	return nil
}

// estimateExpectedOutput approximates what the victim would have received
// had the front-run not moved the pool. The denominator is clamped so a
// 100% front-run impact cannot divide by zero.
func estimateExpectedOutput(victim, front *SwapPattern) uint64 {
	denom := uint64(1)
	if front.PriceImpactBps < 10000 {
		denom = 10000 - front.PriceImpactBps
	}
	return mulDiv(victim.AmountOut, 10000, denom)
}

// mulDiv computes a*b/c in 128-bit intermediate precision, saturating on
// overflow of the final quotient
func mulDiv(a, b, c uint64) uint64 {
	if c == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// insert appends a pattern, evicting the oldest entry at capacity
func (a *SandwichAnalyzer) insert(p SwapPattern) {
	if len(a.buffer) >= a.maxBufferSize {
		copy(a.buffer, a.buffer[1:])
		a.buffer = a.buffer[:len(a.buffer)-1]
	}
	a.buffer = append(a.buffer, p)
}

// prune drops entries outside twice the matching horizon and expires the
// dedup set alongside them
func (a *SandwichAnalyzer) prune(currentCheckpoint int64) {
	horizon := a.maxCheckpointDistance * 2
	kept := a.buffer[:0]
	for _, p := range a.buffer {
		if currentCheckpoint-p.Checkpoint <= horizon {
			kept = append(kept, p)
		}
	}
	a.buffer = kept

	// A triple can only repeat while its legs are still in the buffer
	if len(a.buffer) == 0 && len(a.emitted) > 0 {
		a.emitted = make(map[string]struct{})
	} else if len(a.emitted) > 8*a.maxBufferSize {
		a.emitted = make(map[string]struct{})
	}
}

// buildEvent scores a match and produces the risk event, attributed to the
// back-run transaction
func (a *SandwichAnalyzer) buildEvent(m *SandwichMatch) *risk.RiskEvent {
	var score uint32

	switch {
	case m.AttackerProfit > 1_000_000_000:
		score += 40
	case m.AttackerProfit > 100_000_000:
		score += 30
	case m.AttackerProfit > 0:
		score += 20
	}

	switch {
	case m.VictimLossBps > 1000:
		score += 30
	case m.VictimLossBps > 500:
		score += 20
	case m.VictimLossBps > 100:
		score += 10
	}

	// Same-checkpoint execution is a stronger signal
	if m.FrontRun.Checkpoint == m.BackRun.Checkpoint {
		score += 10
	}

	timeSpan := m.BackRun.TimestampMs - m.FrontRun.TimestampMs
	if timeSpan < 5000 {
		score += 10
	}

	level := sandwichLevel(score)

	description := fmt.Sprintf(
		"Sandwich attack: attacker profit %s, victim loss %s, time span %dms",
		formatAmount(m.AttackerProfit), formatBps(m.VictimLossBps), timeSpan,
	)

	ctx := risk.NewDetectionContext(m.BackRun.TxDigest, m.BackRun.Sender, m.BackRun.Checkpoint, m.BackRun.TimestampMs)
	return risk.NewRiskEvent(risk.TypeSandwichAttack, level, ctx, description).
		WithDetail("attacker", m.BackRun.Sender).
		WithDetail("victim", m.Victim.Sender).
		WithDetail("pool_id", m.BackRun.PoolID).
		WithDetail("front_run_tx", m.FrontRun.TxDigest).
		WithDetail("victim_tx", m.Victim.TxDigest).
		WithDetail("back_run_tx", m.BackRun.TxDigest).
		WithDetail("attacker_profit", formatAmount(m.AttackerProfit)).
		WithDetail("victim_loss_bps", m.VictimLossBps).
		WithDetail("time_span_ms", timeSpan).
		WithDetail("risk_score", score)
}

// sandwichLevel maps a sandwich risk score to a level
func sandwichLevel(score uint32) risk.RiskLevel {
	switch {
	case score >= 70:
		return risk.LevelCritical
	case score >= 50:
		return risk.LevelHigh
	case score >= 30:
		return risk.LevelMedium
	default:
		return risk.LevelLow
	}
}
