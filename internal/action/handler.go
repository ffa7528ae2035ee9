// Package action fans detected risk events into side-effecting handlers.
package action

import (
	"context"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// Handler consumes one risk event. Handlers must tolerate being called for
// every event regardless of level.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event *risk.RiskEvent) error
}

// ActionPipeline invokes every handler in order for each risk event.
// Handler errors are logged and the pipeline continues.
type ActionPipeline struct {
	logger   *logger.Logger
	handlers []Handler
}

// NewActionPipeline creates an empty action pipeline
func NewActionPipeline(log *logger.Logger) *ActionPipeline {
	return &ActionPipeline{logger: log.Named("action-pipeline")}
}

// AddHandler appends a handler and returns the pipeline for chaining
func (p *ActionPipeline) AddHandler(h Handler) *ActionPipeline {
	p.handlers = append(p.handlers, h)
	return p
}

// Run feeds the event to every handler in order
func (p *ActionPipeline) Run(ctx context.Context, event *risk.RiskEvent) {
	for _, h := range p.handlers {
		if err := h.Handle(ctx, event); err != nil {
			p.logger.Warn("Action handler failed",
				zap.String("handler", h.Name()),
				zap.String("risk_type", string(event.RiskType)),
				zap.Error(err))
		}
	}
}
