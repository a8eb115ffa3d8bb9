// Package ledger summarises a hand-maintained position ledger workbook.
package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ColumnStats describes one column of a sheet.
type ColumnStats struct {
	Name     string   `json:"name"`
	NonEmpty int      `json:"non_empty"`
	Numeric  bool     `json:"numeric"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
}

// SheetSummary is the shape and per-column statistics of a sheet.
type SheetSummary struct {
	Name    string        `json:"name"`
	Rows    int           `json:"rows"`
	Columns int           `json:"columns"`
	Stats   []ColumnStats `json:"stats"`
}

// Read loads every sheet of the workbook at path, or only the named one.
func Read(path, only string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if only != "" {
		idx, err := f.GetSheetIndex(only)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", only)
		}
		names = []string{only}
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets = append(sheets, newSheet(name, rows))
	}
	return sheets, nil
}

func newSheet(name string, rows [][]string) Sheet {
	s := Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	s.Columns = make([]string, width)
	for i := range s.Columns {
		var h string
		if i < len(rows[0]) {
			h = strings.TrimSpace(rows[0][i])
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		s.Columns[i] = h
	}
	for _, r := range rows[1:] {
		padded := make([]string, width)
		copy(padded, r)
		s.Rows = append(s.Rows, padded)
	}
	return s
}

// Column returns the index of the named column.
func (s Sheet) Column(name string) (int, bool) {
	for i, c := range s.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Summarize reports shape, non-empty counts and numeric statistics. A column
// is numeric when it has values and every value parses as a number.
func (s Sheet) Summarize() SheetSummary {
	out := SheetSummary{Name: s.Name, Rows: len(s.Rows), Columns: len(s.Columns)}
	for i, name := range s.Columns {
		st := ColumnStats{Name: name, Numeric: true}
		minV, maxV, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, r := range s.Rows {
			cell := strings.TrimSpace(r[i])
			if cell == "" {
				continue
			}
			st.NonEmpty++
			v, ok := number(cell)
			if !ok {
				st.Numeric = false
				continue
			}
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
			sum += v
		}
		if st.NonEmpty == 0 {
			st.Numeric = false
		}
		if st.Numeric {
			mean := sum / float64(st.NonEmpty)
			st.Min, st.Max, st.Mean = &minV, &maxV, &mean
		}
		out.Stats = append(out.Stats, st)
	}
	return out
}

// Detail is the ledger-specific breakdown of a sheet.
type Detail struct {
	Sheet     string     `json:"sheet"`
	TotalRows [][]string `json:"total_rows"`
	Wallets   []string   `json:"wallets"`
	SumColumn string     `json:"sum_column,omitempty"`
	Sum       float64    `json:"sum"`
}

// DetailOptions names the columns Detail inspects. Empty names are skipped.
type DetailOptions struct {
	MarkerColumn string
	Marker       string
	WalletColumn string
	SumColumn    string
}

// Detail lists the rows whose marker column contains the marker text, the
// distinct wallets in first-seen order and the sum of the numeric values of
// the sum column. Non-numeric cells of the sum column are ignored.
func (s Sheet) Detail(opts DetailOptions) (Detail, error) {
	d := Detail{Sheet: s.Name, SumColumn: opts.SumColumn, TotalRows: [][]string{}, Wallets: []string{}}

	if opts.MarkerColumn != "" && opts.Marker != "" {
		idx, ok := s.Column(opts.MarkerColumn)
		if !ok {
			return Detail{}, fmt.Errorf("column %q not found in %s", opts.MarkerColumn, s.Name)
		}
		for _, r := range s.Rows {
			if strings.Contains(r[idx], opts.Marker) {
				d.TotalRows = append(d.TotalRows, r)
			}
		}
	}

	if opts.WalletColumn != "" {
		idx, ok := s.Column(opts.WalletColumn)
		if !ok {
			return Detail{}, fmt.Errorf("column %q not found in %s", opts.WalletColumn, s.Name)
		}
		seen := make(map[string]struct{})
		for _, r := range s.Rows {
			w := strings.TrimSpace(r[idx])
			if w == "" {
				continue
			}
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			d.Wallets = append(d.Wallets, w)
		}
	}

	if opts.SumColumn != "" {
		idx, ok := s.Column(opts.SumColumn)
		if !ok {
			return Detail{}, fmt.Errorf("column %q not found in %s", opts.SumColumn, s.Name)
		}
		for _, r := range s.Rows {
			if v, ok := number(strings.TrimSpace(r[idx])); ok {
				d.Sum += v
			}
		}
	}
	return d, nil
}

func number(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
