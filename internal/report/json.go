package report

import (
	"encoding/json"
	"fmt"
	"os"

	"yieldScope/internal/model"
)

// Flatten merges a ranked entry and its window results into one flat object.
// Window fields are suffixed with the window label: apy_24h, fees_30d, ...
func Flatten(e model.RankedEntry) map[string]any {
	out := map[string]any{
		"rank":            e.Rank,
		"address":         e.Pool.Address,
		"name":            e.Pool.Name,
		"token_a":         e.Pool.TokenA,
		"token_b":         e.Pool.TokenB,
		"fee_tier":        e.Pool.FeeTier,
		"volume_24h":      e.Pool.Volume24h,
		"reserve_usd":     e.Pool.Reserve,
		"txns_24h":        e.Pool.Txns24h,
		"pool_created_at": e.Pool.CreatedAt,
	}
	for _, y := range e.Yields {
		out["apy_"+y.Window] = y.APY
		if y.Window == model.WindowCombined {
			continue
		}
		out["fees_"+y.Window] = y.Fees
		out["volume_"+y.Window] = y.Volume
		out["days_"+y.Window] = y.Days
		if y.Window == model.Window24h {
			out["tvl_"+y.Window] = y.TVL
		} else {
			out["avg_tvl_"+y.Window] = y.TVL
		}
	}
	if long, ok := e.Long(); ok {
		out["has_real_"+long.Window+"_data"] = !long.Estimated
	}
	return out
}

// WriteJSON writes the flattened entries as an indented JSON array.
func WriteJSON(path string, entries []model.RankedEntry) error {
	flat := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		flat = append(flat, Flatten(e))
	}
	return writeJSONFile(path, flat)
}

func writeJSONFile(path string, v any) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteValue writes any JSON-serializable value, indented.
func WriteValue(path string, v any) error {
	return writeJSONFile(path, v)
}
