package indexer

import (
	"fmt"
	"sort"
	"time"

	"github.com/HoangDucBach/sui-risk-indexer/internal/storage"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
)

// Flatten projects an executed transaction into the search document:
// gas, move calls, touched objects, effect counts, events and the derived
// package/module/function sets used for aggregation.
func Flatten(tx *sui.ExecutedTransaction, checkpointSeq, timestampMs int64) storage.SearchDocument {
	doc := storage.SearchDocument{
		TxDigest:                 tx.Transaction.Digest,
		CheckpointSequenceNumber: checkpointSeq,
		Timestamp:                time.UnixMilli(timestampMs).UTC(),
		Sender:                   tx.Transaction.Sender,
		ExecutionStatus:          tx.Effects.Status,
		Kind:                     tx.Transaction.Kind,
		Gas: storage.SearchGas{
			Owner:  tx.Transaction.GasData.Owner,
			Budget: tx.Transaction.GasData.Budget,
			Price:  tx.Transaction.GasData.Price,
		},
		Effects: storage.SearchEffects{
			CreatedCount: len(tx.Effects.Created),
			MutatedCount: len(tx.Effects.Mutated),
			DeletedCount: len(tx.Effects.Deleted),
		},
	}

	if gas := tx.Effects.GasUsed; gas != nil {
		doc.Gas.ComputationCost = &gas.ComputationCost
		doc.Gas.StorageCost = &gas.StorageCost
		doc.Gas.StorageRebate = &gas.StorageRebate
	}

	packages := make(map[string]struct{})
	modules := make(map[string]struct{})
	functions := make(map[string]struct{})

	for _, call := range tx.Transaction.Commands {
		doc.MoveCalls = append(doc.MoveCalls, storage.SearchMoveCall{
			Package:  call.Package,
			Module:   call.Module,
			Function: call.Function,
			FullName: fmt.Sprintf("%s::%s::%s", call.Package, call.Module, call.Function),
		})
		packages[call.Package] = struct{}{}
		modules[call.Module] = struct{}{}
		functions[call.Function] = struct{}{}
	}

	for _, obj := range tx.Effects.Created {
		doc.Objects = append(doc.Objects, storage.SearchObject{
			ObjectID: obj.ObjectID, Type: obj.Type, Owner: obj.Owner, Change: "created",
		})
	}
	for _, obj := range tx.Effects.Mutated {
		doc.Objects = append(doc.Objects, storage.SearchObject{
			ObjectID: obj.ObjectID, Type: obj.Type, Owner: obj.Owner, Change: "mutated",
		})
	}
	for _, obj := range tx.Effects.Deleted {
		doc.Objects = append(doc.Objects, storage.SearchObject{
			ObjectID: obj.ObjectID, Change: "deleted",
		})
	}

	if tx.Events != nil {
		for _, ev := range tx.Events.Data {
			doc.Events = append(doc.Events, storage.SearchEvent{
				Type:    ev.TypeName,
				Package: ev.PackageID,
				Module:  ev.Module,
				Sender:  ev.Sender,
			})
			packages[ev.PackageID] = struct{}{}
			modules[ev.Module] = struct{}{}
		}
	}

	doc.Packages = sortedKeys(packages)
	doc.Modules = sortedKeys(modules)
	doc.Functions = sortedKeys(functions)

	return doc
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
