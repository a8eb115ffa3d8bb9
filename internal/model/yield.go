package model

import "fmt"

// Window labels used across reports. The long window is labelled by its
// length in days; Window30d is the default.
const (
	Window24h      = "24h"
	Window30d      = "30d"
	WindowCombined = "combined"
)

// LongWindow returns the label of a history window of days days.
func LongWindow(days int) string {
	return fmt.Sprintf("%dd", days)
}

// YieldResult is an annualized yield computed for one observation window.
// APY is a plain percentage: 5.0 means 5%.
type YieldResult struct {
	Window    string  `json:"window"`
	APY       float64 `json:"apy"`
	Fees      float64 `json:"fees"`
	TVL       float64 `json:"tvl"`
	Volume    float64 `json:"volume"`
	Days      float64 `json:"days"`
	Estimated bool    `json:"estimated,omitempty"`
}

// RankedEntry is a pool with its computed yields.
type RankedEntry struct {
	Rank   int           `json:"rank"`
	Pool   PoolRecord    `json:"pool"`
	Yields []YieldResult `json:"yields"`
}

// Yield returns the result for window, if present.
func (e RankedEntry) Yield(window string) (YieldResult, bool) {
	for _, y := range e.Yields {
		if y.Window == window {
			return y, true
		}
	}
	return YieldResult{}, false
}

// Long returns the history window result: the first one that is neither the
// 24h snapshot nor the combined score.
func (e RankedEntry) Long() (YieldResult, bool) {
	for _, y := range e.Yields {
		if y.Window != Window24h && y.Window != WindowCombined {
			return y, true
		}
	}
	return YieldResult{}, false
}
