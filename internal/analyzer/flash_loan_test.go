package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

func newFlashLoanAnalyzer(t *testing.T) *FlashLoanAnalyzer {
	return NewFlashLoanAnalyzer(logger.New("test"), testParser(t))
}

func TestFlashLoanAnalyzer_CircularArbitrageIsCritical(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	loanPool, p1, p2 := addr(0x10), addr(0x11), addr(0x12)
	attacker := addr(0x01)

	tx := makeTx(
		encodeEvent(t, events.NameFlashLoanTaken, &events.FlashLoanTaken{
			PoolID: loanPool, Borrower: attacker, Amount: 2_000_000_000,
		}),
		encodeEvent(t, events.NameSwapExecuted, swap(p1, attacker, true, 1000, 990, 1_000_000, 1_000_000, 600), "USDC"),
		encodeEvent(t, events.NameSwapExecuted, swap(p2, attacker, true, 990, 985, 1_000_000, 1_000_000, 600), "USDT"),
		encodeEvent(t, events.NameSwapExecuted, swap(p1, attacker, false, 985, 1005, 1_000_000, 1_000_000, 600), "USDC"),
		encodeEvent(t, events.NameFlashLoanRepaid, &events.FlashLoanRepaid{
			PoolID: loanPool, Borrower: attacker, Amount: 2_000_000_000,
		}),
	)

	ev := a.Analyze(tx, testCtx("digest-1", attacker, 100, 1000))
	require.NotNil(t, ev)

	// circular +30, 3 swaps +20, total impact 1800 +15, max 600 +15,
	// 2 pools +10, loan over 1e9 +10
	assert.Equal(t, uint32(100), ev.Details["risk_score"])
	assert.Equal(t, risk.LevelCritical, ev.RiskLevel)
	assert.Equal(t, risk.TypeFlashLoanAttack, ev.RiskType)
	assert.Equal(t, "digest-1", ev.TxDigest)
	assert.Equal(t, true, ev.Details["circular_trading"])
	assert.Equal(t, 3, ev.Details["swap_count"])
	assert.Equal(t, 2, ev.Details["unique_pools"])
}

func TestFlashLoanAnalyzer_ThresholdBoundary(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	loanPool, p1, p2 := addr(0x10), addr(0x11), addr(0x12)
	attacker := addr(0x01)

	// 2 swaps +10, 2 pools +10, loan over 1e9 +10 = exactly 30
	tx := makeTx(
		encodeEvent(t, events.NameFlashLoanTaken, &events.FlashLoanTaken{
			PoolID: loanPool, Borrower: attacker, Amount: 2_000_000_000,
		}),
		encodeEvent(t, events.NameSwapExecuted, swap(p1, attacker, true, 10, 10, 1_000_000, 1_000_000, 0), "USDC"),
		encodeEvent(t, events.NameSwapExecuted, swap(p2, attacker, true, 10, 10, 1_000_000, 1_000_000, 0), "USDT"),
		encodeEvent(t, events.NameFlashLoanRepaid, &events.FlashLoanRepaid{
			PoolID: loanPool, Borrower: attacker, Amount: 2_000_000_000,
		}),
	)

	ev := a.Analyze(tx, testCtx("digest-2", attacker, 100, 1000))
	require.NotNil(t, ev)
	assert.Equal(t, uint32(30), ev.Details["risk_score"])
	assert.Equal(t, risk.LevelLow, ev.RiskLevel)
}

func TestFlashLoanAnalyzer_BelowThresholdIsAbsent(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	loanPool, p1 := addr(0x10), addr(0x11)
	attacker := addr(0x01)

	// single low-impact swap in one pool with a small loan scores 0
	tx := makeTx(
		encodeEvent(t, events.NameFlashLoanTaken, &events.FlashLoanTaken{
			PoolID: loanPool, Borrower: attacker, Amount: 1000,
		}),
		encodeEvent(t, events.NameSwapExecuted, swap(p1, attacker, true, 10, 10, 1_000_000, 1_000_000, 0), "USDC"),
		encodeEvent(t, events.NameFlashLoanRepaid, &events.FlashLoanRepaid{
			PoolID: loanPool, Borrower: attacker, Amount: 1000,
		}),
	)

	assert.Nil(t, a.Analyze(tx, testCtx("digest-3", attacker, 100, 1000)))
}

func TestFlashLoanAnalyzer_BenignFlashLoanWithoutSwaps(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	loanPool := addr(0x10)
	borrower := addr(0x01)

	tx := makeTx(
		encodeEvent(t, events.NameFlashLoanTaken, &events.FlashLoanTaken{
			PoolID: loanPool, Borrower: borrower, Amount: 5_000_000_000,
		}),
		encodeEvent(t, events.NameFlashLoanRepaid, &events.FlashLoanRepaid{
			PoolID: loanPool, Borrower: borrower, Amount: 5_000_000_000,
		}),
	)

	assert.Nil(t, a.Analyze(tx, testCtx("digest-4", borrower, 100, 1000)))
}

func TestFlashLoanAnalyzer_LoanWithoutRepayIsAbsent(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	tx := makeTx(
		encodeEvent(t, events.NameFlashLoanTaken, &events.FlashLoanTaken{
			PoolID: addr(0x10), Borrower: addr(0x01), Amount: 2_000_000_000,
		}),
		encodeEvent(t, events.NameSwapExecuted, swap(addr(0x11), addr(0x01), true, 10, 10, 100, 100, 900), "USDC"),
	)
	assert.Nil(t, a.Analyze(tx, testCtx("digest-5", addr(0x01), 100, 1000)))
}

func TestFlashLoanAnalyzer_NoEventsIsAbsent(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	assert.Nil(t, a.Analyze(emptyTx(), testCtx("digest-6", addr(0x01), 100, 1000)))
}

func TestFlashLoanAnalyzer_Idempotent(t *testing.T) {
	a := newFlashLoanAnalyzer(t)
	loanPool, p1, p2 := addr(0x10), addr(0x11), addr(0x12)
	attacker := addr(0x01)
	tx := makeTx(
		encodeEvent(t, events.NameFlashLoanTaken, &events.FlashLoanTaken{
			PoolID: loanPool, Borrower: attacker, Amount: 2_000_000_000,
		}),
		encodeEvent(t, events.NameSwapExecuted, swap(p1, attacker, true, 10, 10, 100, 100, 700), "USDC"),
		encodeEvent(t, events.NameSwapExecuted, swap(p2, attacker, true, 10, 10, 100, 100, 700), "USDT"),
		encodeEvent(t, events.NameFlashLoanRepaid, &events.FlashLoanRepaid{
			PoolID: loanPool, Borrower: attacker, Amount: 2_000_000_000,
		}),
	)
	ctx := testCtx("digest-7", attacker, 100, 1000)

	first := a.Analyze(tx, ctx)
	second := a.Analyze(tx, ctx)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.Details["risk_score"], second.Details["risk_score"])
}
