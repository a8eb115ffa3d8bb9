package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/config"
	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
	"yieldScope/internal/report"
	"yieldScope/internal/scan"
	"yieldScope/internal/source/thegraph"
)

func runHistory(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadHistory(cfgFile, cmd.Flags())
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

	httpClient := fetch.New(httpConfig(cfg.HTTP, cfg.Delay, thegraph.AuthHeaders(cfg.TheGraph.APIKey)), logger)
	client := thegraph.NewClient(httpClient, thegraph.Endpoint(cfg.TheGraph.Gateway, cfg.TheGraph.SubgraphID))

	pools := make([]scan.TrackedPool, 0, len(cfg.Pools))
	for _, p := range cfg.Pools {
		pools = append(pools, scan.TrackedPool{Name: p.Name, Address: p.Address})
	}

	logger.Info("history start", zap.Int("pools", len(pools)), zap.Int("lookback_days", cfg.LookbackDays))

	results, runErr := scan.NewHistoryRunner(pools, cfg.LookbackDays, client, fetch.NewBreaker("thegraph", fetch.DefaultBreakerFailures, logger), logger).Run(ctx)
	if results == nil && runErr != nil {
		return runErr
	}

	if err := report.WriteValue(cfg.Out, results); err != nil {
		return err
	}
	logger.Info("history written", zap.String("path", cfg.Out))

	if cfg.Table {
		if err := renderPoolAPY(results); err != nil {
			return err
		}
	}
	return runErr
}

func renderPoolAPY(results []model.PoolAPY) error {
	window := model.Window30d
	if len(results) > 0 {
		window = results[0].Window
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Pool", "APY "+window, "Avg TVL", "Daily volume", "Days", "Error")
	for i, r := range results {
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			r.Name,
			fmt.Sprintf("%.2f%%", r.APY),
			fmt.Sprintf("$%.0f", r.AvgTVL),
			fmt.Sprintf("$%.0f", r.AvgDailyVolume),
			fmt.Sprintf("%d", r.Days),
			r.Error,
		); err != nil {
			return err
		}
	}
	return table.Render()
}
