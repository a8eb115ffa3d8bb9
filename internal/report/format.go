// Package report renders ranking results as JSON, Markdown, Excel, console
// tables and chat messages.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"yieldScope/internal/model"
)

// Links builds pool deep links on the dex front end.
type Links struct {
	Dex   string
	Chain string
}

// DefaultLinks points at the Uniswap app on Ethereum.
var DefaultLinks = Links{Dex: "uniswap", Chain: "ethereum"}

// PoolURL returns the explorer URL of a pool.
func (l Links) PoolURL(address string) string {
	dex, chain := l.Dex, l.Chain
	if dex == "" {
		dex = DefaultLinks.Dex
	}
	if chain == "" {
		chain = DefaultLinks.Chain
	}
	return fmt.Sprintf("https://app.%s.org/explore/pools/%s/%s", dex, chain, address)
}

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func feeTier(fee *float64) string {
	if fee == nil {
		return "n/a"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", *fee), "0"), ".") + "%"
}

// emptyMessage explains a report without entries.
func emptyMessage(r model.Report) string {
	if r.Status == model.StatusNoData {
		return "No pool data fetched."
	}
	return "No eligible pools."
}

// longWindow returns the history window label used by entries.
func longWindow(entries []model.RankedEntry) string {
	for _, e := range entries {
		if y, ok := e.Long(); ok {
			return y.Window
		}
	}
	return model.Window30d
}

// windows returns the window labels present in entries, in first-seen order.
func windows(entries []model.RankedEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		for _, y := range e.Yields {
			if _, ok := seen[y.Window]; ok {
				continue
			}
			seen[y.Window] = struct{}{}
			out = append(out, y.Window)
		}
	}
	return out
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
