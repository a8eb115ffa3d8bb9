package scan

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
	"yieldScope/internal/yield"
)

const historySource = "The Graph"

// TrackedPool is a pool whose history is fetched directly by address.
type TrackedPool struct {
	Name    string
	Address string
}

// HistoryRunner computes long-window APY for a fixed list of pools.
type HistoryRunner struct {
	pools   []TrackedPool
	days    int
	source  HistoryFetcher
	breaker *fetch.Breaker
	logger  *zap.Logger
}

func NewHistoryRunner(pools []TrackedPool, days int, source HistoryFetcher, breaker *fetch.Breaker, logger *zap.Logger) *HistoryRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryRunner{pools: pools, days: days, source: source, breaker: breaker, logger: logger}
}

// Run returns one result per pool, highest APY first. A pool that fails keeps
// its place in the output with APY 0 and the error text.
func (h *HistoryRunner) Run(ctx context.Context) ([]model.PoolAPY, error) {
	results := make([]model.PoolAPY, 0, len(h.pools))
	failed := 0
	for i, p := range h.pools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h.logger.Info("fetch pool history", zap.Int("n", i+1), zap.Int("of", len(h.pools)), zap.String("pool", p.Name))

		res := model.PoolAPY{Name: p.Name, Address: p.Address, Window: model.LongWindow(h.days), Source: historySource}
		var days []model.DayData
		err := h.breaker.Do(func() error {
			var err error
			days, err = h.source.PoolDayData(ctx, p.Address, h.days)
			return err
		})
		switch {
		case err != nil:
			res.Error = err.Error()
		case len(days) == 0:
			res.Error = "no pool day data available"
		default:
			y := yield.FromSeries(res.Window, days)
			res.APY = y.APY
			res.TotalFees = y.Fees
			res.AvgTVL = y.TVL
			res.TotalVolume = y.Volume
			res.Days = len(days)
			res.AvgDailyVolume = y.Volume / float64(len(days))
		}
		if res.Error != "" {
			failed++
			h.logger.Warn("pool history failed", zap.String("pool", p.Name), zap.String("error", res.Error))
		} else {
			h.logger.Info("pool apy", zap.String("pool", p.Name), zap.Float64("apy", res.APY))
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].APY > results[j].APY
	})
	if len(h.pools) > 0 && failed == len(h.pools) {
		return results, fmt.Errorf("%w: every pool history failed", ErrNoData)
	}
	return results, nil
}
