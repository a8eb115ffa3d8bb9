package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/allowlist"
	"yieldScope/internal/config"
	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
	"yieldScope/internal/report"
	"yieldScope/internal/scan"
	"yieldScope/internal/source/gecko"
	"yieldScope/internal/source/thegraph"
	"yieldScope/internal/storage"
	"yieldScope/internal/storage/postgres"
	"yieldScope/internal/yield"
)

func runRank(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRank(cfgFile, cmd.Flags())
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

	al, found, err := allowlist.Load(cfg.Allowlist)
	if err != nil {
		return fmt.Errorf("load allowlist: %w", err)
	}
	if !found {
		logger.Warn("top coins snapshot not found, using static sets only", zap.String("path", cfg.Allowlist))
	}
	stable, major, top := al.Sizes()

	geckoClient := gecko.NewClient(fetch.New(httpConfig(cfg.HTTP, cfg.PageDelay, nil), logger), cfg.GeckoURL, cfg.Network, cfg.Dex)

	var history scan.HistoryFetcher
	switch {
	case cfg.NoHistory:
		logger.Info("history disabled, lookback windows are estimated")
	case cfg.TheGraph.APIKey == "":
		logger.Warn("thegraph api key not set, lookback windows are estimated")
	default:
		graphHTTP := fetch.New(httpConfig(cfg.HTTP, cfg.HistoryDelay, thegraph.AuthHeaders(cfg.TheGraph.APIKey)), logger)
		history = thegraph.NewClient(graphHTTP, thegraph.Endpoint(cfg.TheGraph.Gateway, cfg.TheGraph.SubgraphID))
	}

	runner := scan.NewRunner(scan.RunConfig{
		Pages:        cfg.Pages,
		PagesDir:     cfg.PagesDir,
		SavePages:    cfg.SavePages,
		MinReserve:   cfg.MinReserve,
		Top:          cfg.Top,
		LookbackDays: cfg.LookbackDays,
		RankBy:       cfg.RankBy,
		Weights:      yield.Weights{Short: cfg.WeightShort, Long: cfg.WeightLong},
	}, al, geckoClient, history, fetch.NewBreaker("thegraph", cfg.BreakerFailures, logger), logger)

	logger.Info("rank start",
		zap.String("network", cfg.Network),
		zap.String("dex", cfg.Dex),
		zap.Int("pages", cfg.Pages),
		zap.String("pages_dir", cfg.PagesDir),
		zap.Float64("min_reserve", cfg.MinReserve),
		zap.Int("top", cfg.Top),
		zap.String("rank_by", cfg.RankBy),
		zap.Int("allowlist_stable", stable),
		zap.Int("allowlist_major", major),
		zap.Int("allowlist_top", top),
		zap.Bool("history", history != nil),
	)

	rep, runErr := runner.Run(ctx)
	if runErr != nil && !errors.Is(runErr, scan.ErrNoData) && !errors.Is(runErr, scan.ErrNoEligible) {
		return runErr
	}

	if err := writeRankOutputs(ctx, cfg, rep, logger); err != nil {
		return err
	}

	switch {
	case errors.Is(runErr, scan.ErrNoData):
		logger.Error("no pool data fetched, empty report written")
		return runErr
	case errors.Is(runErr, scan.ErrNoEligible):
		logger.Warn("no pool passed the filters, empty report written")
	default:
		logger.Info("rank complete", zap.String("run_id", rep.RunID), zap.Int("entries", len(rep.Entries)))
	}
	return nil
}

func writeRankOutputs(ctx context.Context, cfg config.RankConfig, rep model.Report, logger *zap.Logger) error {
	links := report.Links{Dex: cfg.LinkDex, Chain: cfg.LinkChain}
	var errs []error

	if cfg.Out != "" {
		if err := report.WriteJSON(cfg.Out, rep.Entries); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("json written", zap.String("path", cfg.Out))
		}
	}
	if cfg.Markdown != "" {
		if err := (report.Markdown{Links: links}).WriteFile(cfg.Markdown, rep); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("markdown written", zap.String("path", cfg.Markdown))
		}
	}
	if cfg.Excel != "" {
		if err := (report.Excel{Links: links}).WriteFile(cfg.Excel, rep); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("excel written", zap.String("path", cfg.Excel))
		}
	}
	if cfg.Table {
		if err := report.NewTable(os.Stdout).Render(rep); err != nil {
			errs = append(errs, err)
		}
	}

	var sinks storage.Multi
	if cfg.HistoryFile != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.HistoryFile))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			errs = append(errs, fmt.Errorf("connect postgres: %w", err))
		} else {
			defer store.Close()
			if err := store.EnsureSchema(ctx); err != nil {
				errs = append(errs, err)
			} else {
				sinks = append(sinks, store)
			}
		}
	}
	if len(sinks) > 0 {
		if err := sinks.PutReport(ctx, rep); err != nil {
			errs = append(errs, fmt.Errorf("store run: %w", err))
		} else {
			logger.Info("run stored", zap.String("run_id", rep.RunID), zap.Int("sinks", len(sinks)))
		}
	}

	if cfg.TelegramToken != "" {
		tg, err := report.NewTelegram(cfg.TelegramToken, cfg.TelegramChat, links)
		if err != nil {
			errs = append(errs, err)
		} else if err := tg.Send(rep); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("telegram sent", zap.Int64("chat", cfg.TelegramChat))
		}
	}

	return errors.Join(errs...)
}
