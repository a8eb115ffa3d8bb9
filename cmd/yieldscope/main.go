package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"yieldScope/internal/config"
	"yieldScope/internal/fetch"
	"yieldScope/internal/yield"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "yieldscope",
		Short:        "Liquidity pool yield ranking",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	rankCmd := &cobra.Command{
		Use:   "rank",
		Short: "Fetch pool listings, filter and rank pools by fee APY",
		RunE:  runRank,
	}

	rankCmd.Flags().Int("pages", 10, "listing pages to fetch")
	rankCmd.Flags().Float64("min-reserve", 100000, "minimum pool reserve in USD")
	rankCmd.Flags().Int("top", 20, "entries to keep, 0 keeps all")
	rankCmd.Flags().Int("lookback-days", 30, "history window in days")
	rankCmd.Flags().String("rank-by", "", "ranking window: 24h, combined or <lookback-days>d (default the lookback window)")
	rankCmd.Flags().Float64("weight-short", yield.DefaultWeights.Short, "24h weight of the combined window")
	rankCmd.Flags().Float64("weight-long", yield.DefaultWeights.Long, "lookback window weight of the combined window")
	rankCmd.Flags().Duration("page-delay", time.Second, "delay between listing requests")
	rankCmd.Flags().Duration("history-delay", 500*time.Millisecond, "delay between history requests")
	rankCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "per-request timeout")
	rankCmd.Flags().Int("breaker-failures", fetch.DefaultBreakerFailures, "consecutive history failures before giving up on history")
	rankCmd.Flags().Bool("no-history", false, "skip history and estimate the lookback window")
	rankCmd.Flags().String("network", "eth", "GeckoTerminal network id")
	rankCmd.Flags().String("dex", "uniswap_v3", "GeckoTerminal dex id")
	rankCmd.Flags().String("link-dex", "uniswap", "dex name used in pool links")
	rankCmd.Flags().String("link-chain", "ethereum", "chain name used in pool links")
	rankCmd.Flags().String("allowlist", "./data/top_coins_symbols.json", "top coins symbol snapshot")
	rankCmd.Flags().String("pages-dir", "", "read saved listing pages from this directory")
	rankCmd.Flags().Bool("save-pages", false, "fetch pages and save them into pages-dir")
	rankCmd.Flags().String("out", "./data/top_pools.json", "output JSON path")
	rankCmd.Flags().String("markdown", "./data/top_pools.md", "output Markdown path")
	rankCmd.Flags().String("excel", "", "output xlsx path")
	rankCmd.Flags().Bool("table", true, "print a table to stdout")
	rankCmd.Flags().String("history-file", "", "append ranked entries to this JSONL file")
	rankCmd.Flags().String("pg-dsn", "", "Postgres DSN for run history")
	rankCmd.Flags().String("telegram-token", "", "Telegram bot token")
	rankCmd.Flags().Int64("telegram-chat", 0, "Telegram chat id")
	rankCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(rankCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Compute 30d APY for a fixed list of pools from The Graph",
		RunE:  runHistory,
	}

	historyCmd.Flags().StringSlice("pools", nil, "pools as NAME=ADDRESS (comma-separated)")
	historyCmd.Flags().Int("lookback-days", 30, "history window in days")
	historyCmd.Flags().Duration("delay", 500*time.Millisecond, "delay between requests")
	historyCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "per-request timeout")
	historyCmd.Flags().String("out", "./data/pools_apy_thegraph.json", "output JSON path")
	historyCmd.Flags().Bool("table", true, "print a table to stdout")
	historyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(historyCmd)

	topCoinsCmd := &cobra.Command{
		Use:   "topcoins",
		Short: "Snapshot the top coins by market cap for the allowlist",
		RunE:  runTopCoins,
	}

	topCoinsCmd.Flags().Int("count", 100, "number of coins")
	topCoinsCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "per-request timeout")
	topCoinsCmd.Flags().String("out", "./data/top_coins_full.json", "full coin list output path")
	topCoinsCmd.Flags().String("symbols", "./data/top_coins_symbols.json", "symbol snapshot output path")
	topCoinsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(topCoinsCmd)

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Summarise an Excel position ledger",
		RunE:  runLedger,
	}

	ledgerCmd.Flags().String("file", "", "ledger workbook path")
	ledgerCmd.Flags().String("sheet", "", "only this sheet")
	ledgerCmd.Flags().Bool("detail", false, "list total rows, wallets and the sum column")
	ledgerCmd.Flags().String("marker-column", "Дата", "column searched for the total marker")
	ledgerCmd.Flags().String("marker", "Итого", "text marking total rows")
	ledgerCmd.Flags().String("wallet-column", "Кошель", "wallet column")
	ledgerCmd.Flags().String("sum-column", "", "numeric column to sum")
	ledgerCmd.Flags().String("out", "", "write the analysis as JSON to this path")
	ledgerCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(ledgerCmd)

	positionsCmd := &cobra.Command{
		Use:   "positions",
		Short: "Value wallet liquidity positions into an Excel report",
		RunE:  runPositions,
	}

	positionsCmd.Flags().StringSlice("wallets", nil, "wallet addresses (comma-separated)")
	positionsCmd.Flags().Int("holding-days", 30, "assumed holding period for APR")
	positionsCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "per-request timeout")
	positionsCmd.Flags().String("excel", "./data/positions_summary.xlsx", "output xlsx path")
	positionsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(positionsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func httpConfig(cfg config.HTTP, delay time.Duration, headers map[string]string) fetch.Config {
	return fetch.Config{
		Timeout:   cfg.Timeout,
		Delay:     delay,
		UserAgent: cfg.UserAgent,
		Headers:   headers,
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
