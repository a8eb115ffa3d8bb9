package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/config"
	"yieldScope/internal/fetch"
	"yieldScope/internal/report"
	"yieldScope/internal/source/coingecko"
)

func runTopCoins(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTopCoins(cfgFile, cmd.Flags())
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

	client := coingecko.NewClient(fetch.New(httpConfig(cfg.HTTP, fetch.DefaultDelay, nil), logger), cfg.CoinGeckoURL)
	coins, err := client.TopCoins(ctx, cfg.Count)
	if err != nil {
		return err
	}
	logger.Info("top coins fetched", zap.Int("count", len(coins)))

	if cfg.Out != "" {
		if err := report.WriteValue(cfg.Out, coins); err != nil {
			return err
		}
		logger.Info("coin list written", zap.String("path", cfg.Out))
	}
	if err := report.WriteValue(cfg.Symbols, coingecko.Symbols(coins)); err != nil {
		return err
	}
	logger.Info("symbol snapshot written", zap.String("path", cfg.Symbols))
	return nil
}
