package pipeline

import (
	"context"

	"github.com/HoangDucBach/sui-risk-indexer/internal/analyzer"
	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
)

// FlashLoanDetector adapts the flash loan analyzer to the detector interface
type FlashLoanDetector struct {
	analyzer *analyzer.FlashLoanAnalyzer
}

// NewFlashLoanDetector wraps a flash loan analyzer
func NewFlashLoanDetector(a *analyzer.FlashLoanAnalyzer) *FlashLoanDetector {
	return &FlashLoanDetector{analyzer: a}
}

// Name identifies the detector in logs
func (d *FlashLoanDetector) Name() string { return "flash_loan" }

// Detect runs the analyzer and lifts its optional result into a slice
func (d *FlashLoanDetector) Detect(_ context.Context, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) []*risk.RiskEvent {
	if ev := d.analyzer.Analyze(tx, dctx); ev != nil {
		return []*risk.RiskEvent{ev}
	}
	return nil
}

// PriceManipulationDetector adapts the price analyzer
type PriceManipulationDetector struct {
	analyzer *analyzer.PriceAnalyzer
}

// NewPriceManipulationDetector wraps a price analyzer
func NewPriceManipulationDetector(a *analyzer.PriceAnalyzer) *PriceManipulationDetector {
	return &PriceManipulationDetector{analyzer: a}
}

// Name identifies the detector in logs
func (d *PriceManipulationDetector) Name() string { return "price_manipulation" }

// Detect runs the analyzer and lifts its optional result into a slice
func (d *PriceManipulationDetector) Detect(_ context.Context, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) []*risk.RiskEvent {
	if ev := d.analyzer.Analyze(tx, dctx); ev != nil {
		return []*risk.RiskEvent{ev}
	}
	return nil
}

// SandwichDetector adapts the stateful sandwich analyzer
type SandwichDetector struct {
	analyzer *analyzer.SandwichAnalyzer
}

// NewSandwichDetector wraps a sandwich analyzer
func NewSandwichDetector(a *analyzer.SandwichAnalyzer) *SandwichDetector {
	return &SandwichDetector{analyzer: a}
}

// Name identifies the detector in logs
func (d *SandwichDetector) Name() string { return "sandwich" }

// Detect runs the analyzer; it may emit several events per transaction
func (d *SandwichDetector) Detect(_ context.Context, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) []*risk.RiskEvent {
	return d.analyzer.Analyze(tx, dctx)
}

// OracleManipulationDetector adapts the oracle manipulation analyzer
type OracleManipulationDetector struct {
	analyzer *analyzer.OracleManipulationAnalyzer
}

// NewOracleManipulationDetector wraps an oracle manipulation analyzer
func NewOracleManipulationDetector(a *analyzer.OracleManipulationAnalyzer) *OracleManipulationDetector {
	return &OracleManipulationDetector{analyzer: a}
}

// Name identifies the detector in logs
func (d *OracleManipulationDetector) Name() string { return "oracle_manipulation" }

// Detect runs the analyzer and lifts its optional result into a slice
func (d *OracleManipulationDetector) Detect(_ context.Context, tx *sui.ExecutedTransaction, dctx *risk.DetectionContext) []*risk.RiskEvent {
	if ev := d.analyzer.Analyze(tx, dctx); ev != nil {
		return []*risk.RiskEvent{ev}
	}
	return nil
}
