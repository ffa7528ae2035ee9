package ingest

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/indexer"
	"github.com/HoangDucBach/sui-risk-indexer/internal/metrics"
	"github.com/HoangDucBach/sui-risk-indexer/internal/storage"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// Runner drives checkpoints from a source through the handler and commits
// the output to the sinks. Checkpoints are processed strictly one at a
// time; the source's ordering guarantee is preserved end to end.
type Runner struct {
	logger    *logger.Logger
	source    Source
	handler   *indexer.TransactionHandler
	store     *storage.Store
	search    *storage.Indexer
	watermark *storage.WatermarkStore
	metrics   *metrics.Metrics
}

// RunnerOptions carries the optional sinks; any of them may be nil
type RunnerOptions struct {
	Store     *storage.Store
	Search    *storage.Indexer
	Watermark *storage.WatermarkStore
	Metrics   *metrics.Metrics
}

// NewRunner wires a runner
func NewRunner(log *logger.Logger, source Source, handler *indexer.TransactionHandler, opts RunnerOptions) *Runner {
	return &Runner{
		logger:    log.Named("ingest-runner"),
		source:    source,
		handler:   handler,
		store:     opts.Store,
		search:    opts.Search,
		watermark: opts.Watermark,
		metrics:   opts.Metrics,
	}
}

// Run consumes checkpoints until the source drains or the context is
// cancelled. Sink failures are logged and never stop the stream.
func (r *Runner) Run(ctx context.Context) error {
	last, ok, err := r.watermark.LastCheckpoint(ctx)
	if err != nil {
		r.logger.Warn("Failed to read watermark, processing from stream start", zap.Error(err))
		ok = false
	}
	if ok {
		r.logger.Info("Resuming after committed checkpoint", zap.Int64("sequence", last))
	}

	for {
		cp, err := r.source.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrSourceClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		seq := cp.Summary.SequenceNumber
		if ok && seq <= last {
			r.logger.Debug("Skipping already committed checkpoint", zap.Int64("sequence", seq))
			continue
		}

		processed := r.handler.ProcessCheckpoint(ctx, cp)
		r.commit(ctx, seq, processed)

		last, ok = seq, true
		if err := r.watermark.Commit(ctx, seq); err != nil {
			r.logger.Warn("Failed to commit watermark", zap.Error(err))
		}
	}
}

// commit writes a checkpoint's output to the configured sinks
func (r *Runner) commit(ctx context.Context, seq int64, processed []indexer.ProcessedTransaction) {
	if len(processed) == 0 {
		return
	}

	if r.store != nil {
		records := make([]storage.TransactionRecord, len(processed))
		for i := range processed {
			records[i] = processed[i].Record
		}
		if _, err := r.store.InsertTransactions(ctx, records); err != nil {
			r.sinkError("postgres")
			r.logger.Error("Failed to persist checkpoint batch",
				zap.Int64("sequence", seq), zap.Error(err))
		}
	}

	if r.search != nil {
		docs := make([]storage.SearchDocument, len(processed))
		for i := range processed {
			docs[i] = processed[i].Document
		}
		if _, err := r.search.BulkIndex(ctx, docs); err != nil {
			r.sinkError("elasticsearch")
			r.logger.Warn("Failed to index checkpoint batch",
				zap.Int64("sequence", seq), zap.Error(err))
		}
	}
}

func (r *Runner) sinkError(sink string) {
	if r.metrics != nil {
		r.metrics.SinkErrors.WithLabelValues(sink).Inc()
	}
}
