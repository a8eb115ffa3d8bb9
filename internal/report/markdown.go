package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"yieldScope/internal/model"
)

// Markdown renders a report as one section per ranked pool.
type Markdown struct {
	Links Links
}

// Write renders r to w.
func (m Markdown) Write(w io.Writer, r model.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Top %d pools by %s APY\n\n", len(r.Entries), r.RankBy)
	fmt.Fprintf(bw, "Generated %s (run `%s`).\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"), r.RunID)
	s := r.Summary
	fmt.Fprintf(bw, "%s records fetched from %d pages, %d eligible, %d below reserve, %d ineligible, %d without fee tier.\n\n",
		humanize.Comma(int64(s.RecordsFetched)), s.PagesFetched, s.Kept, s.BelowReserve, s.Ineligible, s.NoFeeTier)

	if len(r.Entries) == 0 {
		fmt.Fprintln(bw, emptyMessage(r))
		return bw.Flush()
	}

	for _, e := range r.Entries {
		m.writeEntry(bw, e)
	}
	return bw.Flush()
}

func (m Markdown) writeEntry(w io.Writer, e model.RankedEntry) {
	p := e.Pool
	fmt.Fprintf(w, "## %d. %s\n\n", e.Rank, p.Name)
	fmt.Fprintf(w, "- **Address:** `%s`\n", p.Address)
	fmt.Fprintf(w, "- **Volume 24h:** %s\n", money(p.Volume24h))
	fmt.Fprintf(w, "- **TVL:** %s\n", money(p.Reserve))
	fmt.Fprintf(w, "- **Fee tier:** %s\n", feeTier(p.FeeTier))
	for _, y := range e.Yields {
		line := fmt.Sprintf("- **APY %s:** %s", y.Window, percent(y.APY))
		if y.Estimated {
			line += " (estimated)"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "- **Transactions 24h:** %s\n", humanize.Comma(p.Txns24h))
	if created := p.CreatedDate(); created != "" {
		fmt.Fprintf(w, "- **Created:** %s\n", created)
	}
	fmt.Fprintf(w, "- **Data:** %s\n", provenance(e))
	fmt.Fprintf(w, "- **Link:** %s\n\n", m.Links.PoolURL(p.Address))
}

func provenance(e model.RankedEntry) string {
	long, ok := e.Long()
	switch {
	case !ok:
		return "24h snapshot"
	case long.Estimated:
		return "24h snapshot, " + long.Window + " estimated"
	default:
		return fmt.Sprintf("24h snapshot, %.0f days of history", long.Days)
	}
}

// WriteFile renders r into path.
func (m Markdown) WriteFile(path string, r model.Report) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := m.Write(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write markdown: %w", err)
	}
	return f.Close()
}
