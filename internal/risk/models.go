// Package risk defines the classification objects emitted by the detection
// engine and consumed by action handlers.
package risk

import (
	"strings"

	"github.com/google/uuid"
)

// RiskLevel is an ordered severity; higher values are more severe
type RiskLevel int

// Risk levels, ordered for threshold filtering
const (
	LevelLow RiskLevel = iota + 1
	LevelMedium
	LevelHigh
	LevelCritical
)

// String returns the canonical level name
func (l RiskLevel) String() string {
	switch l {
	case LevelLow:
		return "Low"
	case LevelMedium:
		return "Medium"
	case LevelHigh:
		return "High"
	case LevelCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so levels serialize by name
func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel parses a level name case-insensitively, defaulting to Low
func ParseLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return LevelCritical
	case "high":
		return LevelHigh
	case "medium":
		return LevelMedium
	default:
		return LevelLow
	}
}

// RiskType is the closed set of attack classifications
type RiskType string

// Attack classifications
const (
	TypeFlashLoanAttack    RiskType = "FlashLoanAttack"
	TypePriceManipulation  RiskType = "PriceManipulation"
	TypeSandwichAttack     RiskType = "SandwichAttack"
	TypeOracleManipulation RiskType = "OracleManipulation"
)

// RiskEvent is the classification emitted by an analyzer. Details is an
// open diagnostic bag; consumers must not key behavior off any entry.
type RiskEvent struct {
	ID          string                 `json:"id"`
	RiskType    RiskType               `json:"risk_type"`
	RiskLevel   RiskLevel              `json:"risk_level"`
	TxDigest    string                 `json:"tx_digest"`
	Sender      string                 `json:"sender"`
	Checkpoint  int64                  `json:"checkpoint"`
	TimestampMs int64                  `json:"timestamp_ms"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details"`
}

// NewRiskEvent creates a risk event for the transaction described by ctx
func NewRiskEvent(riskType RiskType, level RiskLevel, ctx *DetectionContext, description string) *RiskEvent {
	return &RiskEvent{
		ID:          uuid.NewString(),
		RiskType:    riskType,
		RiskLevel:   level,
		TxDigest:    ctx.TxDigest,
		Sender:      ctx.Sender,
		Checkpoint:  ctx.Checkpoint,
		TimestampMs: ctx.TimestampMs,
		Description: description,
		Details:     make(map[string]interface{}),
	}
}

// WithDetail attaches a diagnostic field and returns the event for chaining
func (e *RiskEvent) WithDetail(key string, value interface{}) *RiskEvent {
	e.Details[key] = value
	return e
}

// DetectionContext is the immutable per-transaction context every analyzer
// receives
type DetectionContext struct {
	TxDigest    string
	Sender      string
	Checkpoint  int64
	TimestampMs int64
}

// NewDetectionContext builds a context for one transaction of a checkpoint
func NewDetectionContext(txDigest, sender string, checkpoint, timestampMs int64) *DetectionContext {
	return &DetectionContext{
		TxDigest:    txDigest,
		Sender:      sender,
		Checkpoint:  checkpoint,
		TimestampMs: timestampMs,
	}
}
