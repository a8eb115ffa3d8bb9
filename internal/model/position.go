package model

// Position is a concentrated-liquidity position valued in USD.
type Position struct {
	ID           string  `json:"position_id"`
	Wallet       string  `json:"wallet"`
	Pool         string  `json:"pool"`
	PoolAddress  string  `json:"pool_address"`
	Token0       string  `json:"token0_symbol"`
	Token1       string  `json:"token1_symbol"`
	FeeTier      float64 `json:"fee_tier"`
	PriceLower   float64 `json:"price_lower"`
	PriceCurrent float64 `json:"price_current"`
	PriceUpper   float64 `json:"price_upper"`
	InRange      bool    `json:"in_range"`
	Liquidity    string  `json:"liquidity"`
	DepositedUSD float64 `json:"deposited_usd"`
	FeesUSD      float64 `json:"fees_usd"`
	// ImpermanentLoss is measured against the geometric middle of the range, in percent.
	ImpermanentLoss float64 `json:"impermanent_loss_pct"`
	ROI             float64 `json:"roi_pct"`
	APR             float64 `json:"estimated_apr_pct"`
}

// PositionSummary aggregates a set of positions.
type PositionSummary struct {
	Total        int     `json:"total_positions"`
	InRange      int     `json:"in_range"`
	OutOfRange   int     `json:"out_of_range"`
	DepositedUSD float64 `json:"total_deposited_usd"`
	FeesUSD      float64 `json:"total_fees_usd"`
	AvgROI       float64 `json:"average_roi_pct"`
	AvgAPR       float64 `json:"average_apr_pct"`
}
