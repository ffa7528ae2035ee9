package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

// Parser decodes raw event payloads into typed records. Unknown names are
// ignored; malformed payloads are skipped and logged once per event name.
type Parser struct {
	logger   *logger.Logger
	decoders map[string]func(*Reader) (interface{}, error)

	warnMu sync.Mutex
	warned map[string]struct{}
}

// NewParser creates a Parser with all known decoders registered
func NewParser(log *logger.Logger) *Parser {
	p := &Parser{
		logger: log.Named("event-parser"),
		warned: make(map[string]struct{}),
	}
	p.decoders = map[string]func(*Reader) (interface{}, error){
		NamePoolCreated:            func(r *Reader) (interface{}, error) { return decodePoolCreated(r) },
		NameSwapExecuted:           func(r *Reader) (interface{}, error) { return decodeSwapExecuted(r) },
		NameLiquidityAdded:         func(r *Reader) (interface{}, error) { return decodeLiquidityAdded(r) },
		NameFlashLoanTaken:         func(r *Reader) (interface{}, error) { return decodeFlashLoanTaken(r) },
		NameFlashLoanRepaid:        func(r *Reader) (interface{}, error) { return decodeFlashLoanRepaid(r) },
		NameTWAPUpdated:            func(r *Reader) (interface{}, error) { return decodeTWAPUpdated(r) },
		NamePriceDeviationDetected: func(r *Reader) (interface{}, error) { return decodePriceDeviationDetected(r) },
		NameSupplyEvent:            func(r *Reader) (interface{}, error) { return decodeSupplyEvent(r) },
		NameBorrowEvent:            func(r *Reader) (interface{}, error) { return decodeBorrowEvent(r) },
		NameRepayEvent:             func(r *Reader) (interface{}, error) { return decodeRepayEvent(r) },
		NameLiquidationEvent:       func(r *Reader) (interface{}, error) { return decodeLiquidationEvent(r) },
		NameAccrueInterestEvent:    func(r *Reader) (interface{}, error) { return decodeAccrueInterestEvent(r) },
	}
	return p
}

// Decode decodes a payload by event name. The second return is false for
// unknown names and malformed payloads.
func (p *Parser) Decode(name string, contents []byte) (interface{}, bool) {
	decode, ok := p.decoders[name]
	if !ok {
		return nil, false
	}
	rec, err := decode(NewReader(contents))
	if err != nil {
		p.warnOnce(name, err)
		return nil, false
	}
	return rec, true
}

func (p *Parser) warnOnce(name string, err error) {
	p.warnMu.Lock()
	_, seen := p.warned[name]
	if !seen {
		p.warned[name] = struct{}{}
	}
	p.warnMu.Unlock()

	if !seen {
		p.logger.Warn("Failed to decode event payload, skipping",
			zap.String("event", name),
			zap.Error(err))
	}
}

// Swap is a decoded SwapExecuted together with the token type the swap
// consumed, taken from the emitting event's first type parameter.
type Swap struct {
	*SwapExecuted
	TokenInType string
}

// ParsedEvents aggregates the typed records of one transaction in emission
// order, built in a single pass.
type ParsedEvents struct {
	Swaps            []Swap
	FlashLoansTaken  []*FlashLoanTaken
	FlashLoansRepaid []*FlashLoanRepaid
	TWAPUpdates      []*TWAPUpdated
	PriceDeviations  []*PriceDeviationDetected
	Supplies         []*SupplyEvent
	Borrows          []*BorrowEvent
	Repays           []*RepayEvent
	Liquidations     []*LiquidationEvent
	Accruals         []*AccrueInterestEvent
	PoolsCreated     []*PoolCreated
	LiquidityAdds    []*LiquidityAdded
}

// Parse runs a single pass over a transaction's events and collects every
// record the parser can decode. A nil events wrapper yields an empty result.
func (p *Parser) Parse(events *sui.TransactionEvents) *ParsedEvents {
	parsed := &ParsedEvents{}
	if events == nil {
		return parsed
	}

	for i := range events.Data {
		ev := &events.Data[i]
		rec, ok := p.Decode(ev.TypeName, ev.Contents)
		if !ok {
			continue
		}
		switch r := rec.(type) {
		case *SwapExecuted:
			var tokenType string
			if len(ev.TypeParams) > 0 {
				tokenType = ev.TypeParams[0]
			}
			parsed.Swaps = append(parsed.Swaps, Swap{SwapExecuted: r, TokenInType: tokenType})
		case *FlashLoanTaken:
			parsed.FlashLoansTaken = append(parsed.FlashLoansTaken, r)
		case *FlashLoanRepaid:
			parsed.FlashLoansRepaid = append(parsed.FlashLoansRepaid, r)
		case *TWAPUpdated:
			parsed.TWAPUpdates = append(parsed.TWAPUpdates, r)
		case *PriceDeviationDetected:
			parsed.PriceDeviations = append(parsed.PriceDeviations, r)
		case *SupplyEvent:
			parsed.Supplies = append(parsed.Supplies, r)
		case *BorrowEvent:
			parsed.Borrows = append(parsed.Borrows, r)
		case *RepayEvent:
			parsed.Repays = append(parsed.Repays, r)
		case *LiquidationEvent:
			parsed.Liquidations = append(parsed.Liquidations, r)
		case *AccrueInterestEvent:
			parsed.Accruals = append(parsed.Accruals, r)
		case *PoolCreated:
			parsed.PoolsCreated = append(parsed.PoolsCreated, r)
		case *LiquidityAdded:
			parsed.LiquidityAdds = append(parsed.LiquidityAdds, r)
		}
	}

	return parsed
}

// HasCompleteFlashLoan reports whether the transaction both borrowed and
// repaid a flash loan
func (e *ParsedEvents) HasCompleteFlashLoan() bool {
	return len(e.FlashLoansTaken) > 0 && len(e.FlashLoansRepaid) > 0
}

// TotalFlashLoanAmount sums all borrowed flash loan amounts
func (e *ParsedEvents) TotalFlashLoanAmount() uint64 {
	var total uint64
	for _, fl := range e.FlashLoansTaken {
		total += fl.Amount
	}
	return total
}

// MaxSwapPriceImpact returns the largest single-swap price impact in bps
func (e *ParsedEvents) MaxSwapPriceImpact() uint64 {
	var max uint64
	for _, s := range e.Swaps {
		if s.PriceImpactBps > max {
			max = s.PriceImpactBps
		}
	}
	return max
}

// TotalSwapPriceImpact sums all per-swap price impacts in bps
func (e *ParsedEvents) TotalSwapPriceImpact() uint64 {
	var total uint64
	for _, s := range e.Swaps {
		total += s.PriceImpactBps
	}
	return total
}
