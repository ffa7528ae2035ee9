package events

// Typed records for the contract events the detectors consume. Field order
// matches the canonical payload layout; integer amounts are raw on-chain
// u64, basis points use 10000 = 100%.

// Event names as emitted by the contracts
const (
	NamePoolCreated            = "PoolCreated"
	NameSwapExecuted           = "SwapExecuted"
	NameLiquidityAdded         = "LiquidityAdded"
	NameFlashLoanTaken         = "FlashLoanTaken"
	NameFlashLoanRepaid        = "FlashLoanRepaid"
	NameTWAPUpdated            = "TWAPUpdated"
	NamePriceDeviationDetected = "PriceDeviationDetected"
	NameSupplyEvent            = "SupplyEvent"
	NameBorrowEvent            = "BorrowEvent"
	NameRepayEvent             = "RepayEvent"
	NameLiquidationEvent       = "LiquidationEvent"
	NameAccrueInterestEvent    = "AccrueInterestEvent"
)

// PoolCreated is emitted when a liquidity pool is initialized
type PoolCreated struct {
	PoolID   string `json:"pool_id"`
	InitialA uint64 `json:"initial_a"`
	InitialB uint64 `json:"initial_b"`
	Creator  string `json:"creator"`
}

// SwapExecuted is emitted for every pool swap. TokenIn is true for A→B.
// Reserves are the post-swap pool balances.
type SwapExecuted struct {
	PoolID         string `json:"pool_id"`
	Sender         string `json:"sender"`
	TokenIn        bool   `json:"token_in"`
	AmountIn       uint64 `json:"amount_in"`
	AmountOut      uint64 `json:"amount_out"`
	FeeAmount      uint64 `json:"fee_amount"`
	ReserveA       uint64 `json:"reserve_a"`
	ReserveB       uint64 `json:"reserve_b"`
	PriceImpactBps uint64 `json:"price_impact_bps"`
}

// LiquidityAdded is emitted when a provider deposits into a pool
type LiquidityAdded struct {
	PoolID          string `json:"pool_id"`
	Provider        string `json:"provider"`
	AmountA         uint64 `json:"amount_a"`
	AmountB         uint64 `json:"amount_b"`
	LiquidityMinted uint64 `json:"liquidity_minted"`
}

// FlashLoanTaken is emitted when a flash loan is borrowed
type FlashLoanTaken struct {
	PoolID   string `json:"pool_id"`
	Borrower string `json:"borrower"`
	Amount   uint64 `json:"amount"`
	Fee      uint64 `json:"fee"`
}

// FlashLoanRepaid is emitted when a flash loan is repaid in the same transaction
type FlashLoanRepaid struct {
	PoolID   string `json:"pool_id"`
	Borrower string `json:"borrower"`
	Amount   uint64 `json:"amount"`
	Fee      uint64 `json:"fee"`
}

// TWAPUpdated is emitted by the pool oracle on every accumulator refresh
type TWAPUpdated struct {
	PoolID            string `json:"pool_id"`
	TokenA            string `json:"token_a"`
	TokenB            string `json:"token_b"`
	TwapPriceA        uint64 `json:"twap_price_a"`
	TwapPriceB        uint64 `json:"twap_price_b"`
	SpotPriceA        uint64 `json:"spot_price_a"`
	SpotPriceB        uint64 `json:"spot_price_b"`
	PriceDeviationBps uint64 `json:"price_deviation_bps"`
	TimestampMs       uint64 `json:"timestamp"`
}

// PriceDeviationDetected is emitted by the oracle when spot diverges from TWAP
type PriceDeviationDetected struct {
	PoolID       string `json:"pool_id"`
	TokenA       string `json:"token_a"`
	TokenB       string `json:"token_b"`
	TwapPrice    uint64 `json:"twap_price"`
	SpotPrice    uint64 `json:"spot_price"`
	DeviationBps uint64 `json:"deviation_bps"`
	TimestampMs  uint64 `json:"timestamp"`
}

// SupplyEvent is emitted when collateral is supplied to a lending market
type SupplyEvent struct {
	MarketID    string `json:"market_id"`
	Supplier    string `json:"supplier"`
	Amount      uint64 `json:"amount"`
	TotalSupply uint64 `json:"total_supply"`
	TimestampMs uint64 `json:"timestamp"`
}

// BorrowEvent is emitted when a position borrows against collateral.
// OraclePrice is the lending oracle's collateral price at borrow time;
// HealthFactor is the collateralization ratio scaled by 10000.
type BorrowEvent struct {
	MarketID        string `json:"market_id"`
	Borrower        string `json:"borrower"`
	PositionID      string `json:"position_id"`
	BorrowAmount    uint64 `json:"borrow_amount"`
	CollateralValue uint64 `json:"collateral_value"`
	OraclePrice     uint64 `json:"oracle_price"`
	HealthFactor    uint64 `json:"health_factor"`
	TotalBorrows    uint64 `json:"total_borrows"`
	TimestampMs     uint64 `json:"timestamp"`
}

// RepayEvent is emitted when borrowed funds are repaid
type RepayEvent struct {
	MarketID    string `json:"market_id"`
	Borrower    string `json:"borrower"`
	PositionID  string `json:"position_id"`
	Amount      uint64 `json:"amount"`
	TimestampMs uint64 `json:"timestamp"`
}

// LiquidationEvent is emitted when an undercollateralized position is seized
type LiquidationEvent struct {
	MarketID         string `json:"market_id"`
	Liquidator       string `json:"liquidator"`
	Borrower         string `json:"borrower"`
	RepayAmount      uint64 `json:"repay_amount"`
	SeizedCollateral uint64 `json:"seized_collateral"`
	TimestampMs      uint64 `json:"timestamp"`
}

// AccrueInterestEvent is emitted when a market accrues interest
type AccrueInterestEvent struct {
	MarketID        string `json:"market_id"`
	InterestAccrued uint64 `json:"interest_accrued"`
	BorrowIndex     uint64 `json:"borrow_index"`
	TimestampMs     uint64 `json:"timestamp"`
}
