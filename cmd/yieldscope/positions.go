package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/config"
	"yieldScope/internal/fetch"
	"yieldScope/internal/position"
	"yieldScope/internal/report"
	"yieldScope/internal/source/coingecko"
	"yieldScope/internal/source/thegraph"
)

func runPositions(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPositions(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	graphHTTP := fetch.New(httpConfig(cfg.HTTP, 0, thegraph.AuthHeaders(cfg.TheGraph.APIKey)), logger)
	graph := thegraph.NewClient(graphHTTP, thegraph.Endpoint(cfg.TheGraph.Gateway, cfg.TheGraph.SubgraphID))
	prices := coingecko.NewClient(fetch.New(httpConfig(cfg.HTTP, 0, nil), logger), cfg.CoinGeckoURL)

	logger.Info("positions start", zap.Int("wallets", len(cfg.Wallets)), zap.Int("holding_days", cfg.HoldingDays))

	positions, summary, err := position.NewTracker(graph, prices, cfg.HoldingDays, logger).Run(ctx, cfg.Wallets)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		logger.Warn("no positions found")
		return nil
	}

	for _, p := range positions {
		mark := "out of range"
		if p.InRange {
			mark = "in range"
		}
		fmt.Fprintf(os.Stdout, "%s #%s fee %.2f%% range %.4f-%.4f current %.4f (%s) deposited $%.2f fees $%.2f\n",
			p.Pool, p.ID, p.FeeTier, p.PriceLower, p.PriceUpper, p.PriceCurrent, mark, p.DepositedUSD, p.FeesUSD)
	}

	if err := report.WritePositions(cfg.Excel, positions, summary); err != nil {
		return err
	}
	logger.Info("positions report written",
		zap.String("path", cfg.Excel),
		zap.Int("positions", summary.Total),
		zap.Int("in_range", summary.InRange),
		zap.Float64("fees_usd", summary.FeesUSD),
	)
	return nil
}
