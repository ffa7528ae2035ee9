// Package indexer turns committed checkpoints into storage records and
// drives the detection and action pipelines.
package indexer

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/action"
	"github.com/HoangDucBach/sui-risk-indexer/internal/metrics"
	"github.com/HoangDucBach/sui-risk-indexer/internal/pipeline"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/storage"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// ProcessedTransaction pairs the database row and the search document
// produced for one transaction
type ProcessedTransaction struct {
	Record   storage.TransactionRecord
	Document storage.SearchDocument
}

// TransactionHandler processes one checkpoint at a time: every transaction
// yields storage output, and transactions touching the target package run
// through detection. The target package id is fixed at construction.
type TransactionHandler struct {
	logger          *logger.Logger
	targetPackageID string
	detection       *pipeline.DetectionPipeline
	actions         *action.ActionPipeline
	dedupe          *storage.WatermarkStore
	metrics         *metrics.Metrics
}

// NewTransactionHandler wires the handler. dedupe and m may be nil.
func NewTransactionHandler(
	log *logger.Logger,
	targetPackageID string,
	detection *pipeline.DetectionPipeline,
	actions *action.ActionPipeline,
	dedupe *storage.WatermarkStore,
	m *metrics.Metrics,
) *TransactionHandler {
	return &TransactionHandler{
		logger:          log.Named("transaction-handler"),
		targetPackageID: targetPackageID,
		detection:       detection,
		actions:         actions,
		dedupe:          dedupe,
		metrics:         m,
	}
}

// ProcessCheckpoint walks the checkpoint's transactions in order, runs
// detection where the package filter matches, dispatches every risk event
// to the action pipeline, and returns the storage output for committing.
func (h *TransactionHandler) ProcessCheckpoint(ctx context.Context, cp *sui.Checkpoint) []ProcessedTransaction {
	seq := cp.Summary.SequenceNumber
	ts := cp.Summary.TimestampMs

	h.logger.Debug("Processing checkpoint",
		zap.Int64("sequence", seq),
		zap.Int("transactions", len(cp.Transactions)))

	out := make([]ProcessedTransaction, 0, len(cp.Transactions))

	for _, tx := range cp.Transactions {
		out = append(out, ProcessedTransaction{
			Record:   h.buildRecord(tx, seq, ts),
			Document: Flatten(tx, seq, ts),
		})

		if h.metrics != nil {
			h.metrics.TransactionsScanned.Inc()
		}

		if !h.involvesTargetPackage(tx.Events) {
			continue
		}

		dctx := risk.NewDetectionContext(tx.Transaction.Digest, tx.Transaction.Sender, seq, ts)
		riskEvents := h.detection.Run(ctx, tx, dctx)

		for _, ev := range riskEvents {
			if !h.claimEvent(ctx, ev) {
				continue
			}
			if h.metrics != nil {
				h.metrics.RiskEvents.WithLabelValues(string(ev.RiskType), ev.RiskLevel.String()).Inc()
			}
			h.logger.Info("Risk event detected",
				zap.String("type", string(ev.RiskType)),
				zap.String("level", ev.RiskLevel.String()),
				zap.String("tx_digest", ev.TxDigest),
				zap.Int64("checkpoint", ev.Checkpoint))
			h.actions.Run(ctx, ev)
		}
	}

	if h.metrics != nil {
		h.metrics.CheckpointsProcessed.Inc()
	}
	return out
}

// claimEvent consults the cross-restart dedup store for sandwich triples.
// Any store failure lets the event through; dropping alerts is worse than
// repeating them.
func (h *TransactionHandler) claimEvent(ctx context.Context, ev *risk.RiskEvent) bool {
	if h.dedupe == nil || ev.RiskType != risk.TypeSandwichAttack {
		return true
	}
	frontTx, _ := ev.Details["front_run_tx"].(string)
	victimTx, _ := ev.Details["victim_tx"].(string)
	backTx, _ := ev.Details["back_run_tx"].(string)
	if frontTx == "" || victimTx == "" || backTx == "" {
		return true
	}
	first, err := h.dedupe.MarkSandwich(ctx, frontTx, victimTx, backTx)
	if err != nil {
		h.logger.Warn("Sandwich dedup store unavailable", zap.Error(err))
		return true
	}
	return first
}

// involvesTargetPackage reports whether any emitted event came from the
// target package
func (h *TransactionHandler) involvesTargetPackage(events *sui.TransactionEvents) bool {
	if events == nil {
		return false
	}
	for i := range events.Data {
		if events.Data[i].PackageID == h.targetPackageID {
			return true
		}
	}
	return false
}

func (h *TransactionHandler) buildRecord(tx *sui.ExecutedTransaction, seq, ts int64) storage.TransactionRecord {
	rawTx, err := json.Marshal(&tx.Transaction)
	if err != nil {
		rawTx = []byte("{}")
	}
	rawEffects, err := json.Marshal(&tx.Effects)
	if err != nil {
		rawEffects = []byte("{}")
	}

	return storage.TransactionRecord{
		TxDigest:                 tx.Transaction.Digest,
		CheckpointSequenceNumber: seq,
		Sender:                   tx.Transaction.Sender,
		TimestampMs:              ts,
		ExecutionStatus:          tx.Effects.Status,
		RawTransaction:           rawTx,
		RawEffects:               rawEffects,
		CreatedAt:                time.Now().UTC(),
	}
}
