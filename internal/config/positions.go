package config

import (
	"fmt"

	"github.com/spf13/pflag"

	"yieldScope/internal/model"
)

// PositionsConfig holds configuration for the positions command.
type PositionsConfig struct {
	HTTP         HTTP
	TheGraph     TheGraph
	CoinGeckoURL string
	Wallets      []string
	HoldingDays  int
	Excel        string
	LogLevel     string
}

// LoadPositions merges config file, environment variables, and flags into PositionsConfig.
func LoadPositions(cfgFile string, flags *pflag.FlagSet) (PositionsConfig, error) {
	v, err := load(cfgFile, flags, map[string]any{
		"holding-days": 30,
		"excel":        "./data/positions_summary.xlsx",
	})
	if err != nil {
		return PositionsConfig{}, err
	}
	// WALLETS is the conventional unprefixed name.
	if err := v.BindEnv("wallets", envPrefix+"_WALLETS", "WALLETS"); err != nil {
		return PositionsConfig{}, fmt.Errorf("bind env: %w", err)
	}

	cfg := PositionsConfig{
		HTTP:         httpConfig(v),
		TheGraph:     theGraphConfig(v),
		CoinGeckoURL: v.GetString("coingecko-url"),
		Wallets:      getStringSlice(v, "wallets"),
		HoldingDays:  v.GetInt("holding-days"),
		Excel:        v.GetString("excel"),
		LogLevel:     v.GetString("log-level"),
	}
	if len(cfg.Wallets) == 0 {
		return PositionsConfig{}, fmt.Errorf("at least one wallet is required")
	}
	for i, w := range cfg.Wallets {
		if !model.IsAddress(w) {
			return PositionsConfig{}, fmt.Errorf("invalid wallet address %q", w)
		}
		cfg.Wallets[i] = model.NormalizeAddress(w)
	}
	if cfg.HoldingDays <= 0 {
		return PositionsConfig{}, fmt.Errorf("holding-days must be positive")
	}
	if cfg.TheGraph.APIKey == "" {
		return PositionsConfig{}, fmt.Errorf("thegraph-api-key is required (THEGRAPH_API_KEY)")
	}
	return cfg, nil
}
