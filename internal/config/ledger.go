package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// LedgerConfig holds configuration for the ledger command.
type LedgerConfig struct {
	File         string
	Sheet        string
	Detail       bool
	MarkerColumn string
	Marker       string
	WalletColumn string
	SumColumn    string
	Out          string
	LogLevel     string
}

// LoadLedger merges config file, environment variables, and flags into LedgerConfig.
func LoadLedger(cfgFile string, flags *pflag.FlagSet) (LedgerConfig, error) {
	v, err := load(cfgFile, flags, map[string]any{
		"marker-column": "Дата",
		"marker":        "Итого",
		"wallet-column": "Кошель",
	})
	if err != nil {
		return LedgerConfig{}, err
	}

	cfg := LedgerConfig{
		File:         v.GetString("file"),
		Sheet:        v.GetString("sheet"),
		Detail:       v.GetBool("detail"),
		MarkerColumn: v.GetString("marker-column"),
		Marker:       v.GetString("marker"),
		WalletColumn: v.GetString("wallet-column"),
		SumColumn:    v.GetString("sum-column"),
		Out:          v.GetString("out"),
		LogLevel:     v.GetString("log-level"),
	}
	if cfg.File == "" {
		return LedgerConfig{}, fmt.Errorf("file is required")
	}
	return cfg, nil
}
