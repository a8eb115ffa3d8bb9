package allowlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Stablecoins are USD-pegged tokens accepted as a pool leg.
var Stablecoins = []string{
	"USDT", "USDC", "DAI", "BUSD", "FRAX", "USDD", "TUSD", "USDP",
	"USDE", "USDS", "PYUSD", "RLUSD", "USDG", "USYC", "USDF",
	"BSC-USD", "SUSDS", "SUSDE", "BFUSD", "USD1", "USDT0",
	"SYRUPUSDC", "GUSD", "LUSD", "SUSD", "FDUSD", "CUSD",
}

// MajorAssets are BTC and ETH wrappers and liquid staking variants.
var MajorAssets = []string{
	"BTC", "WBTC", "CBBTC", "FBTC", "TBTC", "HBTC", "RENBTC",
	"ETH", "WETH", "STETH", "WSTETH", "RETH", "CBETH", "WBETH",
	"WEETH", "BETH", "SFRXETH", "FRXETH", "EETH", "RSETH",
}

// Allowlist classifies token symbols. It is immutable once built.
type Allowlist struct {
	stable map[string]struct{}
	major  map[string]struct{}
	top    map[string]struct{}
}

// New builds an Allowlist from the three symbol groups.
func New(stable, major, top []string) *Allowlist {
	return &Allowlist{
		stable: toSet(stable),
		major:  toSet(major),
		top:    toSet(top),
	}
}

// Default returns the static stablecoin and major-asset sets with no top-N snapshot.
func Default() *Allowlist {
	return New(Stablecoins, MajorAssets, nil)
}

// Load builds the static sets plus the snapshot at path. A missing snapshot is
// not an error: found is false and only the static sets are used.
func Load(path string) (al *Allowlist, found bool, err error) {
	if strings.TrimSpace(path) == "" {
		return Default(), false, nil
	}
	top, err := ReadSnapshot(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), false, nil
		}
		return nil, false, err
	}
	return New(Stablecoins, MajorAssets, top), true, nil
}

// ReadSnapshot reads a JSON array of symbols.
func ReadSnapshot(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return symbols, nil
}

// Allowed reports whether symbol belongs to any of the three sets.
func (a *Allowlist) Allowed(symbol string) bool {
	if a == nil {
		return false
	}
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if key == "" {
		return false
	}
	if _, ok := a.stable[key]; ok {
		return true
	}
	if _, ok := a.major[key]; ok {
		return true
	}
	_, ok := a.top[key]
	return ok
}

// Sizes returns the number of stablecoins, major assets and top-N symbols.
func (a *Allowlist) Sizes() (stable, major, top int) {
	if a == nil {
		return 0, 0, 0
	}
	return len(a.stable), len(a.major), len(a.top)
}

func toSet(symbols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}
