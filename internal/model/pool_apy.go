package model

// PoolAPY is the long-window yield of one tracked pool.
type PoolAPY struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Window         string  `json:"window"`
	APY            float64 `json:"apy"`
	TotalFees      float64 `json:"total_fees_usd"`
	AvgTVL         float64 `json:"avg_tvl_usd"`
	TotalVolume    float64 `json:"total_volume_usd"`
	AvgDailyVolume float64 `json:"daily_avg_volume_usd"`
	Days           int     `json:"days_count"`
	Source         string  `json:"source"`
	Error          string  `json:"error,omitempty"`
}
