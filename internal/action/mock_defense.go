package action

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// MockDefenseAction simulates an on-chain protocol pause for High and
// Critical events. No external side effects; the artificial latency stands
// in for the defense transaction's confirmation time.
type MockDefenseAction struct {
	logger  *logger.Logger
	enabled bool
	latency time.Duration
}

// NewMockDefenseAction creates the defense simulator
func NewMockDefenseAction(log *logger.Logger, enabled bool) *MockDefenseAction {
	return &MockDefenseAction{
		logger:  log.Named("mock-defense"),
		enabled: enabled,
		latency: 500 * time.Millisecond,
	}
}

// Name identifies the handler in logs
func (a *MockDefenseAction) Name() string { return "mock_defense" }

// Handle reacts to High and Critical events with a simulated pause
func (a *MockDefenseAction) Handle(ctx context.Context, event *risk.RiskEvent) error {
	if !a.enabled {
		return nil
	}
	if event.RiskLevel < risk.LevelHigh {
		return nil
	}

	a.logger.Warn("[MOCK DEFENSE] Initiating emergency protocol pause",
		zap.String("target", event.Sender),
		zap.String("reason", string(event.RiskType)))

	select {
	case <-time.After(a.latency):
	case <-ctx.Done():
		return ctx.Err()
	}

	a.logger.Warn("[MOCK DEFENSE] Protocol paused, further transactions will be reverted",
		zap.String("tx_digest", event.TxDigest))
	return nil
}
