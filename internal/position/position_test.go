package position

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldScope/internal/model"
	"yieldScope/internal/source/thegraph"
)

func rawPosition(id, lower, current, upper, fees1 string) thegraph.Position {
	return thegraph.Position{
		ID:                  id,
		Liquidity:           "123456",
		DepositedToken0:     "1",
		DepositedToken1:     "2000",
		CollectedFeesToken0: "0.01",
		CollectedFeesToken1: fees1,
		Pool: thegraph.PositionPool{
			ID:      "0xpool",
			Token0:  thegraph.Token{Symbol: "WETH"},
			Token1:  thegraph.Token{Symbol: "USDC"},
			FeeTier: "3000",
			Tick:    current,
		},
		TickLower: thegraph.Tick{TickIdx: lower},
		TickUpper: thegraph.Tick{TickIdx: upper},
	}
}

func TestPriceFromTick(t *testing.T) {
	assert.Equal(t, 1.0, PriceFromTick(0))
	assert.InDelta(t, 1.0001, PriceFromTick(1), 1e-12)
	assert.InDelta(t, 1/1.0001, PriceFromTick(-1), 1e-12)
}

func TestImpermanentLoss(t *testing.T) {
	assert.InDelta(t, 0.0, ImpermanentLoss(100, 100), 1e-12)
	// Price doubling costs about 5.72%.
	assert.InDelta(t, -5.719, ImpermanentLoss(100, 200), 1e-3)
	assert.InDelta(t, ImpermanentLoss(100, 200), ImpermanentLoss(200, 100), 1e-12)
	assert.Equal(t, 0.0, ImpermanentLoss(0, 100))
}

func TestAPR(t *testing.T) {
	assert.InDelta(t, 36.5, APR(30, 1000, 30), 1e-9)
	assert.Equal(t, 0.0, APR(30, 0, 30))
	assert.Equal(t, 0.0, APR(30, 1000, 0))
}

func TestValue(t *testing.T) {
	pos, err := Value("0xw", rawPosition("1", "-100", "0", "100", "20"), Valuation{Token0USD: 3000, HoldingDays: 30})
	require.NoError(t, err)

	assert.Equal(t, "WETH/USDC", pos.Pool)
	assert.Equal(t, 0.3, pos.FeeTier)
	assert.True(t, pos.InRange)
	assert.Equal(t, 5000.0, pos.DepositedUSD)
	assert.InDelta(t, 50.0, pos.FeesUSD, 1e-9)
	assert.InDelta(t, 1.0, pos.ROI, 1e-9)
	assert.InDelta(t, 12.1666, pos.APR, 1e-3)
	assert.InDelta(t, 0.0, pos.ImpermanentLoss, 1e-9, "current price at range middle")
	assert.Equal(t, "123456", pos.Liquidity)

	out, err := Value("0xw", rawPosition("2", "10", "5", "20", "0"), Valuation{Token0USD: 3000, HoldingDays: 30})
	require.NoError(t, err)
	assert.False(t, out.InRange)

	edge, err := Value("0xw", rawPosition("3", "10", "20", "20", "0"), Valuation{Token0USD: 3000, HoldingDays: 30})
	require.NoError(t, err)
	assert.True(t, edge.InRange, "upper bound is inclusive")
}

func TestValueMalformed(t *testing.T) {
	_, err := Value("0xw", rawPosition("1", "x", "0", "1", "0"), Valuation{})
	assert.ErrorContains(t, err, "tickLower")

	p := rawPosition("1", "0", "0", "1", "")
	_, err = Value("0xw", p, Valuation{})
	assert.ErrorContains(t, err, "collectedFeesToken1")
}

func TestSummarize(t *testing.T) {
	positions := []model.Position{
		{InRange: true, DepositedUSD: 1000, FeesUSD: 10, ROI: 1, APR: 12},
		{InRange: false, DepositedUSD: 3000, FeesUSD: 90, ROI: 3, APR: 36},
	}
	s := Summarize(positions)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.InRange)
	assert.Equal(t, 1, s.OutOfRange)
	assert.Equal(t, 4000.0, s.DepositedUSD)
	assert.Equal(t, 100.0, s.FeesUSD)
	assert.Equal(t, 2.0, s.AvgROI)
	assert.Equal(t, 24.0, s.AvgAPR)

	assert.Equal(t, model.PositionSummary{}, Summarize(nil))
}

type fakePositions struct {
	byWallet map[string][]thegraph.Position
	fail     map[string]error
}

func (f fakePositions) Positions(_ context.Context, wallet string) ([]thegraph.Position, error) {
	if err, ok := f.fail[wallet]; ok {
		return nil, err
	}
	return f.byWallet[wallet], nil
}

type fixedPrice struct {
	price float64
	err   error
}

func (f fixedPrice) SimplePrice(context.Context, string, string) (float64, error) {
	return f.price, f.err
}

func TestTrackerRun(t *testing.T) {
	src := fakePositions{
		byWallet: map[string][]thegraph.Position{
			"a": {rawPosition("1", "-10", "0", "10", "10"), rawPosition("bad", "x", "0", "1", "0")},
			"b": {rawPosition("2", "-10", "0", "10", "200")},
		},
		fail: map[string]error{"c": errors.New("timeout")},
	}
	tr := NewTracker(src, fixedPrice{price: 2000}, 30, nil)

	positions, summary, err := tr.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "2", positions[0].ID, "sorted by ROI")
	assert.Equal(t, "b", positions[0].Wallet)
	assert.Equal(t, 2, summary.Total)
	assert.False(t, math.IsNaN(summary.AvgAPR))
}

func TestTrackerAllWalletsFail(t *testing.T) {
	src := fakePositions{fail: map[string]error{"a": errors.New("down")}}
	_, _, err := NewTracker(src, fixedPrice{price: 1}, 30, nil).Run(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "down")
}

func TestTrackerPriceFailure(t *testing.T) {
	_, _, err := NewTracker(fakePositions{}, fixedPrice{err: errors.New("429")}, 30, nil).Run(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "eth price")
}
