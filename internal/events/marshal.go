package events

// Encode/decode pairs for each record. Decoders consume a Reader positioned
// at the start of the payload and fail with an error on malformed input;
// the parser turns those errors into skipped events.

// Encode serializes a PoolCreated payload
func (e *PoolCreated) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	w.WriteU64(e.InitialA)
	w.WriteU64(e.InitialB)
	if err := w.WriteAddress(e.Creator); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func decodePoolCreated(r *Reader) (*PoolCreated, error) {
	var e PoolCreated
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.InitialA, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.InitialB, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Creator, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a SwapExecuted payload
func (e *SwapExecuted) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Sender); err != nil {
		return nil, err
	}
	w.WriteBool(e.TokenIn)
	w.WriteU64(e.AmountIn)
	w.WriteU64(e.AmountOut)
	w.WriteU64(e.FeeAmount)
	w.WriteU64(e.ReserveA)
	w.WriteU64(e.ReserveB)
	w.WriteU64(e.PriceImpactBps)
	return w.Bytes(), nil
}

func decodeSwapExecuted(r *Reader) (*SwapExecuted, error) {
	var e SwapExecuted
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Sender, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.TokenIn, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if e.AmountIn, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.AmountOut, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.FeeAmount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.ReserveA, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.ReserveB, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.PriceImpactBps, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a LiquidityAdded payload
func (e *LiquidityAdded) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Provider); err != nil {
		return nil, err
	}
	w.WriteU64(e.AmountA)
	w.WriteU64(e.AmountB)
	w.WriteU64(e.LiquidityMinted)
	return w.Bytes(), nil
}

func decodeLiquidityAdded(r *Reader) (*LiquidityAdded, error) {
	var e LiquidityAdded
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Provider, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.AmountA, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.AmountB, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.LiquidityMinted, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a FlashLoanTaken payload
func (e *FlashLoanTaken) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Borrower); err != nil {
		return nil, err
	}
	w.WriteU64(e.Amount)
	w.WriteU64(e.Fee)
	return w.Bytes(), nil
}

func decodeFlashLoanTaken(r *Reader) (*FlashLoanTaken, error) {
	var e FlashLoanTaken
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Borrower, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Fee, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a FlashLoanRepaid payload
func (e *FlashLoanRepaid) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Borrower); err != nil {
		return nil, err
	}
	w.WriteU64(e.Amount)
	w.WriteU64(e.Fee)
	return w.Bytes(), nil
}

func decodeFlashLoanRepaid(r *Reader) (*FlashLoanRepaid, error) {
	var e FlashLoanRepaid
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Borrower, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Fee, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a TWAPUpdated payload
func (e *TWAPUpdated) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	w.WriteString(e.TokenA)
	w.WriteString(e.TokenB)
	w.WriteU64(e.TwapPriceA)
	w.WriteU64(e.TwapPriceB)
	w.WriteU64(e.SpotPriceA)
	w.WriteU64(e.SpotPriceB)
	w.WriteU64(e.PriceDeviationBps)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodeTWAPUpdated(r *Reader) (*TWAPUpdated, error) {
	var e TWAPUpdated
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.TokenA, err = r.ReadString(); err != nil {
		return nil, err
	}
	if e.TokenB, err = r.ReadString(); err != nil {
		return nil, err
	}
	if e.TwapPriceA, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TwapPriceB, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.SpotPriceA, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.SpotPriceB, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.PriceDeviationBps, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a PriceDeviationDetected payload
func (e *PriceDeviationDetected) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.PoolID); err != nil {
		return nil, err
	}
	w.WriteString(e.TokenA)
	w.WriteString(e.TokenB)
	w.WriteU64(e.TwapPrice)
	w.WriteU64(e.SpotPrice)
	w.WriteU64(e.DeviationBps)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodePriceDeviationDetected(r *Reader) (*PriceDeviationDetected, error) {
	var e PriceDeviationDetected
	var err error
	if e.PoolID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.TokenA, err = r.ReadString(); err != nil {
		return nil, err
	}
	if e.TokenB, err = r.ReadString(); err != nil {
		return nil, err
	}
	if e.TwapPrice, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.SpotPrice, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.DeviationBps, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a SupplyEvent payload
func (e *SupplyEvent) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.MarketID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Supplier); err != nil {
		return nil, err
	}
	w.WriteU64(e.Amount)
	w.WriteU64(e.TotalSupply)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodeSupplyEvent(r *Reader) (*SupplyEvent, error) {
	var e SupplyEvent
	var err error
	if e.MarketID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Supplier, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TotalSupply, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a BorrowEvent payload
func (e *BorrowEvent) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.MarketID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Borrower); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.PositionID); err != nil {
		return nil, err
	}
	w.WriteU64(e.BorrowAmount)
	w.WriteU64(e.CollateralValue)
	w.WriteU64(e.OraclePrice)
	w.WriteU64(e.HealthFactor)
	w.WriteU64(e.TotalBorrows)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodeBorrowEvent(r *Reader) (*BorrowEvent, error) {
	var e BorrowEvent
	var err error
	if e.MarketID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Borrower, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.PositionID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.BorrowAmount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.CollateralValue, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.OraclePrice, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.HealthFactor, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TotalBorrows, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a RepayEvent payload
func (e *RepayEvent) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.MarketID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Borrower); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.PositionID); err != nil {
		return nil, err
	}
	w.WriteU64(e.Amount)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodeRepayEvent(r *Reader) (*RepayEvent, error) {
	var e RepayEvent
	var err error
	if e.MarketID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Borrower, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.PositionID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes a LiquidationEvent payload
func (e *LiquidationEvent) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.MarketID); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Liquidator); err != nil {
		return nil, err
	}
	if err := w.WriteAddress(e.Borrower); err != nil {
		return nil, err
	}
	w.WriteU64(e.RepayAmount)
	w.WriteU64(e.SeizedCollateral)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodeLiquidationEvent(r *Reader) (*LiquidationEvent, error) {
	var e LiquidationEvent
	var err error
	if e.MarketID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Liquidator, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.Borrower, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.RepayAmount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.SeizedCollateral, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Encode serializes an AccrueInterestEvent payload
func (e *AccrueInterestEvent) Encode() ([]byte, error) {
	w := NewWriter()
	if err := w.WriteAddress(e.MarketID); err != nil {
		return nil, err
	}
	w.WriteU64(e.InterestAccrued)
	w.WriteU64(e.BorrowIndex)
	w.WriteU64(e.TimestampMs)
	return w.Bytes(), nil
}

func decodeAccrueInterestEvent(r *Reader) (*AccrueInterestEvent, error) {
	var e AccrueInterestEvent
	var err error
	if e.MarketID, err = r.ReadAddress(); err != nil {
		return nil, err
	}
	if e.InterestAccrued, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.BorrowIndex, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TimestampMs, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return &e, nil
}
