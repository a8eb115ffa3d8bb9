package model

// Coin is a market-cap ranked asset.
type Coin struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	MarketCapRank int     `json:"market_cap_rank"`
	MarketCap     float64 `json:"market_cap"`
}
