package indexer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
)

func TestFlattenProjectsAllSections(t *testing.T) {
	computation := int64(500)
	tx := &sui.ExecutedTransaction{
		Transaction: sui.TransactionData{
			Digest: "digest-1",
			Sender: "0xsender",
			Kind:   "ProgrammableTransaction",
			GasData: sui.GasData{
				Owner: "0xsender", Budget: 10_000_000, Price: 1000,
			},
			Commands: []sui.MoveCall{
				{Package: "0xpkg", Module: "amm", Function: "swap"},
				{Package: "0xpkg", Module: "amm", Function: "flash_loan"},
			},
		},
		Effects: sui.TransactionEffects{
			Status:  sui.StatusSuccess,
			GasUsed: &sui.GasUsage{ComputationCost: computation, StorageCost: 200, StorageRebate: 50},
			Created: []sui.ObjectChange{{ObjectID: "0xobj1", Type: "0xpkg::amm::Pool", Owner: "shared"}},
			Mutated: []sui.ObjectChange{{ObjectID: "0xobj2"}},
			Deleted: []sui.RemovedObject{{ObjectID: "0xobj3"}},
		},
		Events: &sui.TransactionEvents{Data: []sui.Event{
			{TypeName: "SwapExecuted", PackageID: "0xpkg", Module: "amm", Sender: "0xsender"},
		}},
	}

	doc := Flatten(tx, 42, 1700000000000)

	assert.Equal(t, "digest-1", doc.TxDigest)
	assert.Equal(t, int64(42), doc.CheckpointSequenceNumber)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), doc.Timestamp)
	assert.Equal(t, "0xsender", doc.Sender)
	assert.Equal(t, sui.StatusSuccess, doc.ExecutionStatus)
	assert.Equal(t, "ProgrammableTransaction", doc.Kind)

	assert.Equal(t, int64(10_000_000), doc.Gas.Budget)
	require.NotNil(t, doc.Gas.ComputationCost)
	assert.Equal(t, computation, *doc.Gas.ComputationCost)

	require.Len(t, doc.MoveCalls, 2)
	assert.Equal(t, "0xpkg::amm::swap", doc.MoveCalls[0].FullName)

	require.Len(t, doc.Objects, 3)
	assert.Equal(t, "created", doc.Objects[0].Change)
	assert.Equal(t, "mutated", doc.Objects[1].Change)
	assert.Equal(t, "deleted", doc.Objects[2].Change)

	assert.Equal(t, 1, doc.Effects.CreatedCount)
	assert.Equal(t, 1, doc.Effects.MutatedCount)
	assert.Equal(t, 1, doc.Effects.DeletedCount)

	require.Len(t, doc.Events, 1)
	assert.Equal(t, "SwapExecuted", doc.Events[0].Type)

	// package/module/function sets are deduplicated and sorted
	assert.Equal(t, []string{"0xpkg"}, doc.Packages)
	assert.Equal(t, []string{"amm"}, doc.Modules)
	assert.Equal(t, []string{"flash_loan", "swap"}, doc.Functions)
}

func TestFlattenWithoutEventsOrGasUsage(t *testing.T) {
	tx := &sui.ExecutedTransaction{
		Transaction: sui.TransactionData{Digest: "digest-2", Sender: "0xsender"},
		Effects:     sui.TransactionEffects{Status: "failure"},
	}

	doc := Flatten(tx, 1, 2)
	assert.Equal(t, "failure", doc.ExecutionStatus)
	assert.Nil(t, doc.Gas.ComputationCost)
	assert.Empty(t, doc.Events)
	assert.Empty(t, doc.Objects)
}
