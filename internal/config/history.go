package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"yieldScope/internal/model"
)

// PoolRef names one pool tracked by the history command.
type PoolRef struct {
	Name    string
	Address string
}

// DefaultPools is the pool list used when none is configured.
var DefaultPools = []string{
	"XAUt / WETH 0.3%=0xc5c7c21f4e60770ca5991a8832127a40f5236f73",
	"XAUt / USDT 0.05%=0x6546055f46e866a4b9a4a13e81273e3152bae5da",
	"WETH / USDT 0.3%=0x4e68ccd3e89f51c3074ca5072bbac773960dfa36",
	"XAUt / USDT 0.3%=0xa91f80380d9cc9c86eb98d2965a0ded9e2000791",
	"UNI / WBTC 0.3%=0x8f0cb37cdff37e004e0088f563e5fe39e05ccc5b",
	"WLFI / USDT 0.3%=0x813b1bce815c15774f85f8ff6b0dcbbb75a1d995",
	"BNB / WETH 1%=0x9e7809c21ba130c1a51c112928ea6474d9a9ae3c",
	"ONDO / WETH 0.3%=0x7b1e5d984a43ee732de195628d20d05cfabc3cc7",
	"PAXG / XAUt 0.05%=0xed7ef9a9a05a48858a507c080def0405ad1eaa3e",
	"ENA / WETH 0.3%=0xc3db44adc1fcdfd5671f555236eae49f4a8eea18",
}

// HistoryConfig holds configuration for the history command.
type HistoryConfig struct {
	HTTP         HTTP
	TheGraph     TheGraph
	Pools        []PoolRef
	LookbackDays int
	Delay        time.Duration
	Out          string
	Table        bool
	LogLevel     string
}

// LoadHistory merges config file, environment variables, and flags into HistoryConfig.
func LoadHistory(cfgFile string, flags *pflag.FlagSet) (HistoryConfig, error) {
	v, err := load(cfgFile, flags, map[string]any{
		"lookback-days": 30,
		"delay":         500 * time.Millisecond,
		"out":           "./data/pools_apy_thegraph.json",
		"table":         true,
	})
	if err != nil {
		return HistoryConfig{}, err
	}

	entries := getStringSlice(v, "pools")
	if len(entries) == 0 {
		entries = DefaultPools
	}
	pools := make([]PoolRef, 0, len(entries))
	for _, entry := range entries {
		ref, err := ParsePoolRef(entry)
		if err != nil {
			return HistoryConfig{}, err
		}
		pools = append(pools, ref)
	}

	cfg := HistoryConfig{
		HTTP:         httpConfig(v),
		TheGraph:     theGraphConfig(v),
		Pools:        pools,
		LookbackDays: v.GetInt("lookback-days"),
		Delay:        v.GetDuration("delay"),
		Out:          v.GetString("out"),
		Table:        v.GetBool("table"),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.LookbackDays <= 0 {
		return HistoryConfig{}, fmt.Errorf("lookback-days must be positive")
	}
	if cfg.TheGraph.APIKey == "" {
		return HistoryConfig{}, fmt.Errorf("thegraph-api-key is required (THEGRAPH_API_KEY)")
	}
	return cfg, nil
}

// ParsePoolRef parses "NAME=0xaddress". The address must be valid hex.
func ParsePoolRef(entry string) (PoolRef, error) {
	idx := strings.LastIndex(entry, "=")
	if idx <= 0 {
		return PoolRef{}, fmt.Errorf("invalid pool %q: want NAME=ADDRESS", entry)
	}
	name := strings.TrimSpace(entry[:idx])
	addr := strings.TrimSpace(entry[idx+1:])
	if name == "" || !model.IsAddress(addr) {
		return PoolRef{}, fmt.Errorf("invalid pool %q: bad name or address", entry)
	}
	return PoolRef{Name: name, Address: model.NormalizeAddress(addr)}, nil
}
