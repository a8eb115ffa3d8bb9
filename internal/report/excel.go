package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"yieldScope/internal/model"
)

const (
	poolsSheet     = "Pools"
	summarySheet   = "Summary"
	positionsSheet = "Positions"
)

// Excel writes reports as xlsx workbooks.
type Excel struct {
	Links Links
}

// WriteFile writes a Pools sheet with one row per entry and a Summary sheet.
func (x Excel) WriteFile(path string, r model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", poolsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	wins := windows(r.Entries)
	header := []any{"Rank", "Name", "Address", "Token A", "Token B", "Fee %", "Volume 24h", "TVL", "Txns 24h", "Created"}
	for _, w := range wins {
		header = append(header, "APY "+w)
	}
	lw := longWindow(r.Entries)
	header = append(header, "Fees "+lw, "Avg TVL "+lw, "Real "+lw+" data", "Link")

	rows := [][]any{header}
	for _, e := range r.Entries {
		p := e.Pool
		var fee any
		if p.FeeTier != nil {
			fee = *p.FeeTier
		}
		row := []any{e.Rank, p.Name, p.Address, p.TokenA, p.TokenB, fee, p.Volume24h, p.Reserve, p.Txns24h, p.CreatedDate()}
		for _, w := range wins {
			y, _ := e.Yield(w)
			row = append(row, y.APY)
		}
		long, ok := e.Long()
		row = append(row, long.Fees, long.TVL, ok && !long.Estimated, x.Links.PoolURL(p.Address))
		rows = append(rows, row)
	}
	if err := setRows(f, poolsSheet, rows); err != nil {
		return err
	}

	if err := setRows(f, summarySheet, reportSummary(r)); err != nil {
		return err
	}
	return save(f, path)
}

func reportSummary(r model.Report) [][]any {
	var tvl, volume, apy float64
	for _, e := range r.Entries {
		tvl += e.Pool.Reserve
		volume += e.Pool.Volume24h
		y, _ := e.Yield(r.RankBy)
		apy += y.APY
	}
	avgAPY := 0.0
	if len(r.Entries) > 0 {
		avgAPY = apy / float64(len(r.Entries))
	}
	s := r.Summary
	return [][]any{
		{"Metric", "Value"},
		{"Run ID", r.RunID},
		{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Rank by", r.RankBy},
		{"Pools ranked", len(r.Entries)},
		{"Status", r.Status},
		{"Pages fetched", s.PagesFetched},
		{"Pages failed", s.PagesFailed},
		{"Records fetched", s.RecordsFetched},
		{"Malformed records", s.Malformed},
		{"Without fee tier", s.NoFeeTier},
		{"Ineligible", s.Ineligible},
		{"Below reserve", s.BelowReserve},
		{"Eligible", s.Kept},
		{"History fetched", s.HistoryFetched},
		{"History failed", s.HistoryFailed},
		{"Total TVL (USD)", tvl},
		{"Total volume 24h (USD)", volume},
		{"Average APY " + r.RankBy + " (%)", avgAPY},
	}
}

// WritePositions writes a Positions sheet, in the given order, and a Summary sheet.
func WritePositions(path string, positions []model.Position, summary model.PositionSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", positionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{{
		"position_id", "wallet", "pool", "pool_address", "fee_tier", "price_lower", "price_current", "price_upper",
		"in_range", "liquidity", "deposited_usd", "fees_usd", "impermanent_loss_%", "roi_%", "estimated_apr_%",
	}}
	for _, p := range positions {
		rows = append(rows, []any{
			p.ID, p.Wallet, p.Pool, p.PoolAddress, p.FeeTier, p.PriceLower, p.PriceCurrent, p.PriceUpper,
			p.InRange, p.Liquidity, p.DepositedUSD, p.FeesUSD, p.ImpermanentLoss, p.ROI, p.APR,
		})
	}
	if err := setRows(f, positionsSheet, rows); err != nil {
		return err
	}

	if err := setRows(f, summarySheet, [][]any{
		{"Metric", "Value"},
		{"Total Positions", summary.Total},
		{"In Range", summary.InRange},
		{"Out of Range", summary.OutOfRange},
		{"Total Deposited (USD)", summary.DepositedUSD},
		{"Total Fees Earned (USD)", summary.FeesUSD},
		{"Average ROI (%)", summary.AvgROI},
		{"Average APR (%)", summary.AvgAPR},
	}); err != nil {
		return err
	}
	return save(f, path)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func save(f *excelize.File, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
