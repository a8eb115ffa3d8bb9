package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"yieldScope/internal/model"
)

// Table prints ranked entries to a terminal.
type Table struct {
	out io.Writer
}

// NewTable builds a Table writing to out.
func NewTable(out io.Writer) *Table {
	return &Table{out: out}
}

// Render prints one row per entry with every window's APY.
func (t *Table) Render(r model.Report) error {
	wins := windows(r.Entries)
	header := []any{"#", "Pool", "Fee", "TVL", "Volume 24h"}
	for _, w := range wins {
		header = append(header, "APY "+w)
	}
	header = append(header, "Txns")

	table := tablewriter.NewWriter(t.out)
	table.Header(header...)
	for _, e := range r.Entries {
		row := []any{
			fmt.Sprintf("%d", e.Rank),
			e.Pool.Name,
			feeTier(e.Pool.FeeTier),
			money(e.Pool.Reserve),
			money(e.Pool.Volume24h),
		}
		for _, w := range wins {
			y, _ := e.Yield(w)
			cell := percent(y.APY)
			if y.Estimated {
				cell += "*"
			}
			row = append(row, cell)
		}
		row = append(row, fmt.Sprintf("%d", e.Pool.Txns24h))
		if err := table.Append(row...); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if len(r.Entries) > 0 {
		fmt.Fprintln(t.out, "  * estimated from the 24h snapshot")
	} else {
		fmt.Fprintln(t.out, emptyMessage(r))
	}
	return nil
}
