package action

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
)

// LogAction writes a one-line summary of every risk event to stderr
type LogAction struct {
	out io.Writer
}

// NewLogAction creates a log handler writing to stderr
func NewLogAction() *LogAction {
	return &LogAction{out: os.Stderr}
}

// NewLogActionWithWriter creates a log handler with a custom writer, used in tests
func NewLogActionWithWriter(w io.Writer) *LogAction {
	return &LogAction{out: w}
}

// Name identifies the handler in logs
func (a *LogAction) Name() string { return "log" }

// Handle prints the event summary
func (a *LogAction) Handle(_ context.Context, event *risk.RiskEvent) error {
	prefix := event.TxDigest
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	_, err := fmt.Fprintf(a.out, "[%s] %s: %s (tx: %s)\n",
		event.RiskLevel, event.RiskType, event.Description, prefix)
	return err
}
