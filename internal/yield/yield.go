// Package yield annualizes trading-fee income into a percentage yield.
//
// All results are plain percentages (5.0 means 5%). A missing fee tier, a
// non-positive TVL or an empty window is a defined zero, never an error.
package yield

import (
	"math"

	"yieldScope/internal/model"
)

// DaysPerYear is the annualization base. Yields are simple, not compounded.
const DaysPerYear = 365.0

// Weights combine a short and a long window into one score.
type Weights struct {
	Short float64
	Long  float64
}

// DefaultWeights favours the long window.
var DefaultWeights = Weights{Short: 0.3, Long: 0.7}

// ForWindow annualizes traded volume over windowDays given the fee tier in percent.
func ForWindow(volume, reserve float64, feeTier *float64, windowDays float64) float64 {
	if feeTier == nil {
		return 0
	}
	return FromFees(FeesFromVolume(volume, *feeTier), reserve, windowDays)
}

// FeesFromVolume returns the fee income for volume at feeTier percent.
func FeesFromVolume(volume, feeTier float64) float64 {
	return finite(volume * (feeTier / 100))
}

// FromFees annualizes fees already earned over windowDays against tvl.
func FromFees(fees, tvl, windowDays float64) float64 {
	if tvl <= 0 || windowDays <= 0 || math.IsNaN(tvl) || math.IsNaN(windowDays) {
		return 0
	}
	return finite((fees / tvl) * (DaysPerYear / windowDays) * 100)
}

// Snapshot computes the yield of a single volume/reserve observation.
func Snapshot(label string, volume, reserve float64, feeTier *float64, windowDays float64) model.YieldResult {
	res := model.YieldResult{
		Window: label,
		Volume: volume,
		TVL:    reserve,
		Days:   windowDays,
	}
	if feeTier != nil {
		res.Fees = FeesFromVolume(volume, *feeTier)
	}
	res.APY = ForWindow(volume, reserve, feeTier, windowDays)
	return res
}

// FromSeries sums daily fees, averages daily TVL and annualizes over the number
// of days actually present.
func FromSeries(label string, days []model.DayData) model.YieldResult {
	res := model.YieldResult{Window: label, Days: float64(len(days))}
	if len(days) == 0 {
		return res
	}

	var tvlSum float64
	for _, d := range days {
		res.Fees += d.FeesUSD
		res.Volume += d.VolumeUSD
		tvlSum += d.TVLUSD
	}
	res.TVL = tvlSum / float64(len(days))
	res.APY = FromFees(res.Fees, res.TVL, res.Days)
	return res
}

// Estimate stands in for a long window when no history is available: the
// short-window APY is reused and volume is extrapolated linearly.
func Estimate(label string, short model.YieldResult, reserve float64, windowDays float64) model.YieldResult {
	scale := 0.0
	if short.Days > 0 {
		scale = windowDays / short.Days
	}
	return model.YieldResult{
		Window:    label,
		APY:       short.APY,
		Fees:      finite(short.Fees * scale),
		TVL:       reserve,
		Volume:    finite(short.Volume * scale),
		Days:      windowDays,
		Estimated: true,
	}
}

// Combine blends two window results with the given weights.
func Combine(label string, short, long model.YieldResult, w Weights) model.YieldResult {
	return model.YieldResult{
		Window:    label,
		APY:       finite(w.Short*short.APY + w.Long*long.APY),
		Estimated: short.Estimated || long.Estimated,
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
