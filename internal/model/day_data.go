package model

// DayData is one day of pool history.
type DayData struct {
	Date      int64   `json:"date"`
	VolumeUSD float64 `json:"volume_usd"`
	TVLUSD    float64 `json:"tvl_usd"`
	FeesUSD   float64 `json:"fees_usd"`
}
