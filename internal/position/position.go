// Package position values concentrated-liquidity positions held by a wallet.
package position

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"yieldScope/internal/model"
	"yieldScope/internal/source/thegraph"
	"yieldScope/internal/yield"
)

const tickBase = 1.0001

// PriceFromTick converts a tick index into a raw token1/token0 price.
func PriceFromTick(tick int64) float64 {
	return math.Pow(tickBase, float64(tick))
}

// ImpermanentLoss returns the loss of a 50/50 position against holding, in
// percent (negative means a loss).
func ImpermanentLoss(entryPrice, currentPrice float64) float64 {
	if entryPrice <= 0 || currentPrice < 0 {
		return 0
	}
	r := currentPrice / entryPrice
	return (2*math.Sqrt(r)/(1+r) - 1) * 100
}

// APR annualizes fees earned on principal over days, in percent.
func APR(fees, principal, days float64) float64 {
	return yield.FromFees(fees, principal, days)
}

// Valuation prices token0 in USD; token1 is taken as USD.
type Valuation struct {
	Token0USD   float64
	HoldingDays float64
}

// Value converts a raw subgraph position into a model.Position.
func Value(wallet string, p thegraph.Position, v Valuation) (model.Position, error) {
	lower, err := parseInt(p.TickLower.TickIdx, "tickLower")
	if err != nil {
		return model.Position{}, err
	}
	upper, err := parseInt(p.TickUpper.TickIdx, "tickUpper")
	if err != nil {
		return model.Position{}, err
	}
	current, err := parseInt(p.Pool.Tick, "tick")
	if err != nil {
		return model.Position{}, err
	}
	feeTier, err := parseInt(p.Pool.FeeTier, "feeTier")
	if err != nil {
		return model.Position{}, err
	}

	amounts := make(map[string]float64, 4)
	for name, raw := range map[string]string{
		"depositedToken0":     p.DepositedToken0,
		"depositedToken1":     p.DepositedToken1,
		"collectedFeesToken0": p.CollectedFeesToken0,
		"collectedFeesToken1": p.CollectedFeesToken1,
	} {
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return model.Position{}, fmt.Errorf("position %s: %s: %w", p.ID, name, err)
		}
		amounts[name] = val
	}

	priceLower := PriceFromTick(lower)
	priceUpper := PriceFromTick(upper)
	priceCurrent := PriceFromTick(current)

	deposited := amounts["depositedToken0"]*v.Token0USD + amounts["depositedToken1"]
	fees := amounts["collectedFeesToken0"]*v.Token0USD + amounts["collectedFeesToken1"]

	pos := model.Position{
		ID:              p.ID,
		Wallet:          wallet,
		Pool:            p.Pool.Token0.Symbol + "/" + p.Pool.Token1.Symbol,
		PoolAddress:     p.Pool.ID,
		Token0:          p.Pool.Token0.Symbol,
		Token1:          p.Pool.Token1.Symbol,
		FeeTier:         float64(feeTier) / 10000,
		PriceLower:      priceLower,
		PriceCurrent:    priceCurrent,
		PriceUpper:      priceUpper,
		InRange:         lower <= current && current <= upper,
		Liquidity:       p.Liquidity,
		DepositedUSD:    deposited,
		FeesUSD:         fees,
		ImpermanentLoss: ImpermanentLoss(math.Sqrt(priceLower*priceUpper), priceCurrent),
		APR:             APR(fees, deposited, v.HoldingDays),
	}
	if deposited > 0 {
		pos.ROI = fees / deposited * 100
	}
	return pos, nil
}

// SortByROI orders positions by ROI, highest first, keeping ties in order.
func SortByROI(positions []model.Position) {
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].ROI > positions[j].ROI
	})
}

// Summarize aggregates positions.
func Summarize(positions []model.Position) model.PositionSummary {
	s := model.PositionSummary{Total: len(positions)}
	var roi, apr float64
	for _, p := range positions {
		if p.InRange {
			s.InRange++
		}
		s.DepositedUSD += p.DepositedUSD
		s.FeesUSD += p.FeesUSD
		roi += p.ROI
		apr += p.APR
	}
	s.OutOfRange = s.Total - s.InRange
	if s.Total > 0 {
		s.AvgROI = roi / float64(s.Total)
		s.AvgAPR = apr / float64(s.Total)
	}
	return s
}

func parseInt(raw, field string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}
