package position

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yieldScope/internal/model"
	"yieldScope/internal/source/thegraph"
)

// PositionSource lists the positions owned by a wallet.
type PositionSource interface {
	Positions(ctx context.Context, wallet string) ([]thegraph.Position, error)
}

// PriceSource quotes a coin price.
type PriceSource interface {
	SimplePrice(ctx context.Context, id, vs string) (float64, error)
}

// Tracker values the positions of a set of wallets.
type Tracker struct {
	positions   PositionSource
	prices      PriceSource
	holdingDays int
	logger      *zap.Logger
}

func NewTracker(positions PositionSource, prices PriceSource, holdingDays int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{positions: positions, prices: prices, holdingDays: holdingDays, logger: logger}
}

// Run values every position of wallets, sorted by ROI. A wallet that cannot
// be fetched is skipped; the run fails only when every wallet failed.
func (t *Tracker) Run(ctx context.Context, wallets []string) ([]model.Position, model.PositionSummary, error) {
	ethPrice, err := t.prices.SimplePrice(ctx, "ethereum", "usd")
	if err != nil {
		return nil, model.PositionSummary{}, fmt.Errorf("eth price: %w", err)
	}
	t.logger.Info("eth price", zap.Float64("usd", ethPrice))
	valuation := Valuation{Token0USD: ethPrice, HoldingDays: float64(t.holdingDays)}

	var (
		out  []model.Position
		errs []error
	)
	for _, wallet := range wallets {
		raw, err := t.positions.Positions(ctx, wallet)
		if err != nil {
			if ctx.Err() != nil {
				return nil, model.PositionSummary{}, ctx.Err()
			}
			errs = append(errs, err)
			t.logger.Warn("fetch positions failed", zap.String("wallet", wallet), zap.Error(err))
			continue
		}
		t.logger.Info("positions fetched", zap.String("wallet", wallet), zap.Int("count", len(raw)))

		for _, p := range raw {
			pos, err := Value(wallet, p, valuation)
			if err != nil {
				t.logger.Warn("skip malformed position", zap.String("id", p.ID), zap.Error(err))
				continue
			}
			out = append(out, pos)
		}
	}
	if len(wallets) > 0 && len(errs) == len(wallets) {
		return nil, model.PositionSummary{}, errors.Join(errs...)
	}

	SortByROI(out)
	return out, Summarize(out), nil
}
