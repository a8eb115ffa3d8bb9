package yield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"yieldScope/internal/model"
)

func fee(v float64) *float64 { return &v }

func TestForWindowSnapshot(t *testing.T) {
	// 1,000,000 volume at 0.3% on 500,000 reserve.
	apy := ForWindow(1_000_000, 500_000, fee(0.3), 1)
	assert.InDelta(t, 219.0, apy, 1e-9)

	res := Snapshot(model.Window24h, 1_000_000, 500_000, fee(0.3), 1)
	assert.InDelta(t, 3000.0, res.Fees, 1e-9)
	assert.InDelta(t, 219.0, res.APY, 1e-9)
	assert.Equal(t, 500_000.0, res.TVL)
}

func TestForWindowZeroReserve(t *testing.T) {
	for _, v := range []float64{0, 1, 1e9} {
		for _, days := range []float64{1, 7, 30} {
			assert.Equal(t, 0.0, ForWindow(v, 0, fee(0.3), days))
			assert.Equal(t, 0.0, ForWindow(v, -10, fee(1), days))
		}
	}
}

func TestForWindowAbsentFee(t *testing.T) {
	for _, tvl := range []float64{1, 100_000, 1e12} {
		assert.Equal(t, 0.0, ForWindow(1_000_000, tvl, nil, 1))
		assert.Equal(t, 0.0, ForWindow(1_000_000, tvl, nil, 30))
	}
}

func TestForWindowNonPositiveDays(t *testing.T) {
	assert.Equal(t, 0.0, ForWindow(1_000_000, 500_000, fee(0.3), 0))
	assert.Equal(t, 0.0, FromFees(3000, 500_000, -1))
}

func TestForWindowHomogeneous(t *testing.T) {
	base := FromFees(12_345, 2_000_000, 30)
	doubled := FromFees(2*12_345, 2_000_000, 30)
	assert.InDelta(t, 2*base, doubled, 1e-9)

	base = ForWindow(750_000, 900_000, fee(0.05), 1)
	doubled = ForWindow(1_500_000, 900_000, fee(0.05), 1)
	assert.InDelta(t, 2*base, doubled, 1e-9)
}

func TestForWindowNeverNonFinite(t *testing.T) {
	apy := ForWindow(math.Inf(1), 1, fee(0.3), 1)
	assert.Equal(t, 0.0, apy)
	apy = FromFees(math.NaN(), 1, 1)
	assert.Equal(t, 0.0, apy)
	apy = FromFees(1, math.NaN(), 1)
	assert.Equal(t, 0.0, apy)
}

func TestFromSeriesTenDays(t *testing.T) {
	days := make([]model.DayData, 10)
	for i := range days {
		days[i] = model.DayData{
			Date:      int64(1_700_000_000 + i*86_400),
			VolumeUSD: 1_000_000,
			TVLUSD:    900_000 + float64(i%2)*200_000,
			FeesUSD:   5_000,
		}
	}

	res := FromSeries(model.Window30d, days)
	assert.Equal(t, 10.0, res.Days)
	assert.InDelta(t, 50_000.0, res.Fees, 1e-9)
	assert.InDelta(t, 1_000_000.0, res.TVL, 1e-9)
	assert.InDelta(t, 10_000_000.0, res.Volume, 1e-9)
	assert.InDelta(t, 182.5, res.APY, 1e-9)
	assert.False(t, res.Estimated)
}

func TestFromSeriesEmpty(t *testing.T) {
	res := FromSeries(model.Window30d, nil)
	assert.Equal(t, 0.0, res.APY)
	assert.Equal(t, 0.0, res.Days)
}

func TestFromSeriesZeroTVL(t *testing.T) {
	res := FromSeries(model.Window30d, []model.DayData{{FeesUSD: 10}, {FeesUSD: 20}})
	assert.Equal(t, 0.0, res.APY)
	assert.InDelta(t, 30.0, res.Fees, 1e-9)
}

func TestEstimate(t *testing.T) {
	short := Snapshot(model.Window24h, 1_000_000, 500_000, fee(0.3), 1)
	est := Estimate(model.Window30d, short, 500_000, 30)

	assert.True(t, est.Estimated)
	assert.InDelta(t, short.APY, est.APY, 1e-9)
	assert.InDelta(t, 30_000_000.0, est.Volume, 1e-6)
	assert.Equal(t, 500_000.0, est.TVL)
	assert.Equal(t, 30.0, est.Days)
}

func TestCombine(t *testing.T) {
	short := model.YieldResult{Window: model.Window24h, APY: 100}
	long := model.YieldResult{Window: model.Window30d, APY: 50, Estimated: true}

	res := Combine(model.WindowCombined, short, long, DefaultWeights)
	assert.InDelta(t, 65.0, res.APY, 1e-9)
	assert.True(t, res.Estimated)
	assert.Equal(t, model.WindowCombined, res.Window)

	res = Combine(model.WindowCombined, short, long, Weights{Short: 1})
	assert.InDelta(t, 100.0, res.APY, 1e-9)
}
