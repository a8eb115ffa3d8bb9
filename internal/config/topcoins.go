package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// TopCoinsConfig holds configuration for the topcoins command.
type TopCoinsConfig struct {
	HTTP         HTTP
	CoinGeckoURL string
	Count        int
	Out          string
	Symbols      string
	LogLevel     string
}

// LoadTopCoins merges config file, environment variables, and flags into TopCoinsConfig.
func LoadTopCoins(cfgFile string, flags *pflag.FlagSet) (TopCoinsConfig, error) {
	v, err := load(cfgFile, flags, map[string]any{
		"count":   100,
		"out":     "./data/top_coins_full.json",
		"symbols": "./data/top_coins_symbols.json",
	})
	if err != nil {
		return TopCoinsConfig{}, err
	}

	cfg := TopCoinsConfig{
		HTTP:         httpConfig(v),
		CoinGeckoURL: v.GetString("coingecko-url"),
		Count:        v.GetInt("count"),
		Out:          v.GetString("out"),
		Symbols:      v.GetString("symbols"),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.Count <= 0 {
		return TopCoinsConfig{}, fmt.Errorf("count must be positive")
	}
	if cfg.Symbols == "" {
		return TopCoinsConfig{}, fmt.Errorf("symbols output path is required")
	}
	return cfg, nil
}
