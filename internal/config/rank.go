package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"yieldScope/internal/model"
	"yieldScope/internal/yield"
)

// RankConfig holds configuration for the rank command.
type RankConfig struct {
	HTTP     HTTP
	TheGraph TheGraph

	Pages        int
	MinReserve   float64
	Top          int
	LookbackDays int
	RankBy       string
	WeightShort  float64
	WeightLong   float64

	PageDelay       time.Duration
	HistoryDelay    time.Duration
	BreakerFailures int
	NoHistory       bool

	GeckoURL  string
	Network   string
	Dex       string
	LinkDex   string
	LinkChain string

	Allowlist string
	PagesDir  string
	SavePages bool

	Out           string
	Markdown      string
	Excel         string
	Table         bool
	HistoryFile   string
	PGDSN         string
	TelegramToken string
	TelegramChat  int64

	LogLevel string
}

// LoadRank merges config file, environment variables, and flags into RankConfig.
func LoadRank(cfgFile string, flags *pflag.FlagSet) (RankConfig, error) {
	v, err := load(cfgFile, flags, map[string]any{
		"pages":            10,
		"min-reserve":      100000.0,
		"top":              20,
		"lookback-days":    30,
		"rank-by":          "",
		"weight-short":     yield.DefaultWeights.Short,
		"weight-long":      yield.DefaultWeights.Long,
		"page-delay":       time.Second,
		"history-delay":    500 * time.Millisecond,
		"breaker-failures": 5,
		"network":          "eth",
		"dex":              "uniswap_v3",
		"link-dex":         "uniswap",
		"link-chain":       "ethereum",
		"allowlist":        "./data/top_coins_symbols.json",
		"out":              "./data/top_pools.json",
		"markdown":         "./data/top_pools.md",
		"table":            true,
	})
	if err != nil {
		return RankConfig{}, err
	}

	cfg := RankConfig{
		HTTP:            httpConfig(v),
		TheGraph:        theGraphConfig(v),
		Pages:           v.GetInt("pages"),
		MinReserve:      v.GetFloat64("min-reserve"),
		Top:             v.GetInt("top"),
		LookbackDays:    v.GetInt("lookback-days"),
		RankBy:          v.GetString("rank-by"),
		WeightShort:     v.GetFloat64("weight-short"),
		WeightLong:      v.GetFloat64("weight-long"),
		PageDelay:       v.GetDuration("page-delay"),
		HistoryDelay:    v.GetDuration("history-delay"),
		BreakerFailures: v.GetInt("breaker-failures"),
		NoHistory:       v.GetBool("no-history"),
		GeckoURL:        v.GetString("gecko-url"),
		Network:         v.GetString("network"),
		Dex:             v.GetString("dex"),
		LinkDex:         v.GetString("link-dex"),
		LinkChain:       v.GetString("link-chain"),
		Allowlist:       v.GetString("allowlist"),
		PagesDir:        v.GetString("pages-dir"),
		SavePages:       v.GetBool("save-pages"),
		Out:             v.GetString("out"),
		Markdown:        v.GetString("markdown"),
		Excel:           v.GetString("excel"),
		Table:           v.GetBool("table"),
		HistoryFile:     v.GetString("history-file"),
		PGDSN:           v.GetString("pg-dsn"),
		TelegramToken:   v.GetString("telegram-token"),
		TelegramChat:    v.GetInt64("telegram-chat"),
		LogLevel:        v.GetString("log-level"),
	}
	if cfg.RankBy == "" && cfg.LookbackDays > 0 {
		cfg.RankBy = model.LongWindow(cfg.LookbackDays)
	}
	return cfg, cfg.validate()
}

func (c RankConfig) validate() error {
	if c.Pages <= 0 && c.PagesDir == "" {
		return fmt.Errorf("pages must be positive")
	}
	if c.MinReserve < 0 {
		return fmt.Errorf("min-reserve must not be negative")
	}
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback-days must be positive")
	}
	long := model.LongWindow(c.LookbackDays)
	switch c.RankBy {
	case model.Window24h, long, model.WindowCombined:
	default:
		return fmt.Errorf("rank-by must be one of %s, %s, %s", model.Window24h, long, model.WindowCombined)
	}
	if c.WeightShort < 0 || c.WeightLong < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if c.SavePages && c.PagesDir == "" {
		return fmt.Errorf("save-pages requires pages-dir")
	}
	if (c.TelegramToken == "") != (c.TelegramChat == 0) {
		return fmt.Errorf("telegram-token and telegram-chat must be set together")
	}
	return nil
}
