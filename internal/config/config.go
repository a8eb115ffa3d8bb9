// Package config loads per-command settings from flags, environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "YIELDSCOPE"

// HTTP holds the settings shared by every command that calls a public API.
type HTTP struct {
	Timeout   time.Duration
	UserAgent string
}

// TheGraph holds the subgraph gateway settings.
type TheGraph struct {
	Gateway    string
	SubgraphID string
	APIKey     string
}

// load merges defaults, the config file, environment variables and flags.
// Flags win over env, env over the file, the file over defaults.
func load(cfgFile string, flags *pflag.FlagSet, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("user-agent", "yieldscope/1.0")
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	// The Graph key is also read from its conventional unprefixed name.
	if err := v.BindEnv("thegraph-api-key", envPrefix+"_THEGRAPH_API_KEY", "THEGRAPH_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func httpConfig(v *viper.Viper) HTTP {
	return HTTP{
		Timeout:   v.GetDuration("timeout"),
		UserAgent: v.GetString("user-agent"),
	}
}

func theGraphConfig(v *viper.Viper) TheGraph {
	return TheGraph{
		Gateway:    v.GetString("thegraph-gateway"),
		SubgraphID: v.GetString("thegraph-subgraph"),
		APIKey:     v.GetString("thegraph-api-key"),
	}
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
