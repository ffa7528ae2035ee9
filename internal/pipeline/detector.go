// Package pipeline composes analyzers into an ordered detection pipeline.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// RiskDetector is the capability every detector exposes to the pipeline
type RiskDetector interface {
	Name() string
	Detect(ctx context.Context, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) []*risk.RiskEvent
}

// DetectionPipeline runs an ordered list of detectors against each
// transaction and concatenates their findings. Order is fixed at
// construction. A detector failure never fails the pipeline.
type DetectionPipeline struct {
	logger    *logger.Logger
	detectors []RiskDetector
}

// NewDetectionPipeline creates an empty pipeline
func NewDetectionPipeline(log *logger.Logger) *DetectionPipeline {
	return &DetectionPipeline{logger: log.Named("detection-pipeline")}
}

// AddDetector appends a detector and returns the pipeline for chaining
func (p *DetectionPipeline) AddDetector(d RiskDetector) *DetectionPipeline {
	p.detectors = append(p.detectors, d)
	return p
}

// Run applies every detector in order and returns the union of their
// findings in detector order.
func (p *DetectionPipeline) Run(ctx context.Context, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) []*risk.RiskEvent {
	var out []*risk.RiskEvent
	for _, d := range p.detectors {
		out = append(out, p.runDetector(ctx, d, tx, dctx)...)
	}
	return out
}

func (p *DetectionPipeline) runDetector(ctx context.Context, d RiskDetector, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) (found []*risk.RiskEvent) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Detector panicked, discarding its findings",
				zap.String("detector", d.Name()),
				zap.String("tx_digest", dctx.TxDigest),
				zap.Any("panic", r))
			found = nil
		}
	}()
	return d.Detect(ctx, tx, dctx)
}
