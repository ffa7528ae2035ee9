package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

func newSandwichAnalyzer(t *testing.T) *SandwichAnalyzer {
	return NewSandwichAnalyzer(logger.New("test"), testParser(t))
}

func TestSandwichAnalyzer_DetectsThreeLeggedPattern(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)
	attacker := addr(0x03)
	victim := addr(0x04)

	frontTx := makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 1000, 995, 1_000_000, 1_000_000, 500), "USDC"),
	)
	victimTx := makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, victim, true, 500, 950, 1_000_000, 1_000_000, 200), "USDC"),
	)
	backTx := makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, false, 900, 1200, 1_000_000, 1_000_000, 500), "SUI"),
	)

	require.Empty(t, a.Analyze(frontTx, testCtx("front", attacker, 1000, 100)))
	require.Empty(t, a.Analyze(victimTx, testCtx("victim", victim, 1000, 200)))

	detected := a.Analyze(backTx, testCtx("back", attacker, 1000, 300))
	require.Len(t, detected, 1)

	ev := detected[0]
	assert.Equal(t, risk.TypeSandwichAttack, ev.RiskType)
	assert.Equal(t, "back", ev.TxDigest)
	assert.Equal(t, attacker, ev.Details["attacker"])
	assert.Equal(t, victim, ev.Details["victim"])
	assert.Equal(t, pool, ev.Details["pool_id"])
	assert.Equal(t, "front", ev.Details["front_run_tx"])
	assert.Equal(t, "victim", ev.Details["victim_tx"])
	assert.Equal(t, "back", ev.Details["back_run_tx"])

	// profit 200 (+20), victim loss 500 bps via the 5% front-run (+10),
	// same checkpoint (+10), sub-5s execution (+10)
	assert.Equal(t, uint32(50), ev.Details["risk_score"])
	assert.Equal(t, risk.LevelHigh, ev.RiskLevel)
	assert.Equal(t, "200", ev.Details["attacker_profit"])
	assert.Equal(t, uint64(500), ev.Details["victim_loss_bps"])
	assert.Equal(t, int64(200), ev.Details["time_span_ms"])
}

func TestSandwichAnalyzer_NoProfitWhenBackRunOutputNotAboveFrontRunInput(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)
	attacker := addr(0x03)
	victim := addr(0x04)

	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 1000, 995, 0, 0, 500), "USDC"),
	), testCtx("front", attacker, 1000, 100))
	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, victim, true, 500, 950, 0, 0, 200), "USDC"),
	), testCtx("victim", victim, 1000, 200))

	detected := a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, false, 900, 1000, 0, 0, 500), "SUI"),
	), testCtx("back", attacker, 1000, 300))

	require.Len(t, detected, 1)
	assert.Equal(t, "0", detected[0].Details["attacker_profit"])
	// loss +10, same checkpoint +10, fast +10
	assert.Equal(t, uint32(30), detected[0].Details["risk_score"])
	assert.Equal(t, risk.LevelMedium, detected[0].RiskLevel)
}

func TestSandwichAnalyzer_RequiresDistinctVictim(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)
	attacker := addr(0x03)

	// all three legs from the same sender: no victim, no match
	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 1000, 995, 0, 0, 500), "USDC"),
	), testCtx("front", attacker, 1000, 100))
	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 500, 495, 0, 0, 200), "USDC"),
	), testCtx("mid", attacker, 1000, 200))

	detected := a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, false, 900, 1200, 0, 0, 500), "SUI"),
	), testCtx("back", attacker, 1000, 300))
	assert.Empty(t, detected)
}

func TestSandwichAnalyzer_RequiresOppositeDirections(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)
	attacker := addr(0x03)
	victim := addr(0x04)

	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 1000, 995, 0, 0, 500), "USDC"),
	), testCtx("front", attacker, 1000, 100))
	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, victim, true, 500, 950, 0, 0, 200), "USDC"),
	), testCtx("victim", victim, 1000, 200))

	// back-run in the same direction as the front-run is not a sandwich
	detected := a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 900, 890, 0, 0, 500), "USDC"),
	), testCtx("back", attacker, 1000, 300))
	assert.Empty(t, detected)
}

func TestSandwichAnalyzer_IgnoresLowImpactSwaps(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)

	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, addr(0x03), true, 1000, 995, 0, 0, 50), "USDC"),
	), testCtx("tx", addr(0x03), 1000, 100))

	assert.Equal(t, 0, a.BufferSize())
}

func TestSandwichAnalyzer_BufferIsBounded(t *testing.T) {
	a := NewSandwichAnalyzerWithConfig(logger.New("test"), testParser(t), SandwichConfig{
		MaxBufferSize:         5,
		MaxCheckpointDistance: 100,
		MinPriceImpactBps:     100,
	})
	pool := addr(0x30)

	for i := 0; i < 20; i++ {
		sender := addr(byte(0x40 + i))
		tx := makeTx(
			encodeEvent(t, events.NameSwapExecuted, swap(pool, sender, true, 100, 99, 0, 0, 200), "USDC"),
		)
		a.Analyze(tx, testCtx(fmt.Sprintf("tx-%d", i), sender, 1000, int64(i)))
		assert.LessOrEqual(t, a.BufferSize(), 5)
	}
	assert.Equal(t, 5, a.BufferSize())
}

func TestSandwichAnalyzer_PrunesBeyondCheckpointHorizon(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)

	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, addr(0x03), true, 100, 99, 0, 0, 200), "USDC"),
	), testCtx("old", addr(0x03), 1000, 100))
	require.Equal(t, 1, a.BufferSize())

	// a transaction 2*distance+1 checkpoints later evicts the old entry
	a.Analyze(emptyTx(), testCtx("new", addr(0x05), 1201, 200))
	assert.Equal(t, 0, a.BufferSize())
}

func TestSandwichAnalyzer_DedupesRepeatedInvocation(t *testing.T) {
	a := newSandwichAnalyzer(t)
	pool := addr(0x30)
	attacker := addr(0x03)
	victim := addr(0x04)

	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, true, 1000, 995, 0, 0, 500), "USDC"),
	), testCtx("front", attacker, 1000, 100))
	a.Analyze(makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, victim, true, 500, 950, 0, 0, 200), "USDC"),
	), testCtx("victim", victim, 1000, 200))

	backTx := makeTx(
		encodeEvent(t, events.NameSwapExecuted, swap(pool, attacker, false, 900, 1200, 0, 0, 500), "SUI"),
	)
	first := a.Analyze(backTx, testCtx("back", attacker, 1000, 300))
	require.Len(t, first, 1)

	second := a.Analyze(backTx, testCtx("back", attacker, 1000, 300))
	assert.Empty(t, second)
}

func TestSandwichAnalyzer_EstimatorClampsFullImpact(t *testing.T) {
	victim := &SwapPattern{AmountOut: 1000}
	front := &SwapPattern{PriceImpactBps: 10000}

	// a 100% front-run impact must not divide by zero
	out := estimateExpectedOutput(victim, front)
	assert.Equal(t, uint64(1000*10000), out)
}

func TestSandwichAnalyzer_NoEventsLeavesStateUntouched(t *testing.T) {
	a := newSandwichAnalyzer(t)
	assert.Empty(t, a.Analyze(emptyTx(), testCtx("tx", addr(0x03), 1000, 100)))
	assert.Equal(t, 0, a.BufferSize())
}
