package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HoangDucBach/sui-risk-indexer/internal/events"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// addr builds a full-width test address
func addr(n byte) string {
	return fmt.Sprintf("0x%064x", n)
}

type encodable interface {
	Encode() ([]byte, error)
}

// encodeEvent wraps a record into a raw contract event
func encodeEvent(t *testing.T, name string, rec encodable, typeParams ...string) sui.Event {
	t.Helper()
	contents, err := rec.Encode()
	require.NoError(t, err)
	return sui.Event{
		TypeName:   name,
		PackageID:  addr(0xAA),
		Module:     "amm",
		Contents:   contents,
		TypeParams: typeParams,
	}
}

// makeTx assembles a successful transaction carrying the given events
func makeTx(evts ...sui.Event) *sui.ExecutedTransaction {
	return &sui.ExecutedTransaction{
		Transaction: sui.TransactionData{},
		Effects:     sui.TransactionEffects{Status: sui.StatusSuccess},
		Events:      &sui.TransactionEvents{Data: evts},
	}
}

// emptyTx is a transaction with no events at all
func emptyTx() *sui.ExecutedTransaction {
	return &sui.ExecutedTransaction{
		Effects: sui.TransactionEffects{Status: sui.StatusSuccess},
	}
}

func testCtx(digest string, sender string, checkpoint, timestampMs int64) *risk.DetectionContext {
	return risk.NewDetectionContext(digest, sender, checkpoint, timestampMs)
}

func testParser(t *testing.T) *events.Parser {
	t.Helper()
	return events.NewParser(logger.New("test"))
}

// swap builds a SwapExecuted record with the fields the detectors read
func swap(pool string, sender string, tokenIn bool, amountIn, amountOut, reserveA, reserveB, impactBps uint64) *events.SwapExecuted {
	return &events.SwapExecuted{
		PoolID:         pool,
		Sender:         sender,
		TokenIn:        tokenIn,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		ReserveA:       reserveA,
		ReserveB:       reserveB,
		PriceImpactBps: impactBps,
	}
}
