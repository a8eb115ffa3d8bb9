package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/config"
	"yieldScope/internal/ledger"
	"yieldScope/internal/report"
)

type ledgerAnalysis struct {
	Sheets  []ledger.SheetSummary `json:"sheets"`
	Details []ledger.Detail       `json:"details,omitempty"`
}

func runLedger(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadLedger(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sheets, err := ledger.Read(cfg.File, cfg.Sheet)
	if err != nil {
		return err
	}
	logger.Info("ledger loaded", zap.String("file", cfg.File), zap.Int("sheets", len(sheets)))

	var analysis ledgerAnalysis
	for _, s := range sheets {
		summary := s.Summarize()
		analysis.Sheets = append(analysis.Sheets, summary)
		if err := renderSheetSummary(summary); err != nil {
			return err
		}

		if !cfg.Detail {
			continue
		}
		detail, err := s.Detail(ledger.DetailOptions{
			MarkerColumn: cfg.MarkerColumn,
			Marker:       cfg.Marker,
			WalletColumn: cfg.WalletColumn,
			SumColumn:    cfg.SumColumn,
		})
		if err != nil {
			logger.Warn("detail skipped", zap.String("sheet", s.Name), zap.Error(err))
			continue
		}
		analysis.Details = append(analysis.Details, detail)
		printDetail(detail)
	}

	if cfg.Out != "" {
		if err := report.WriteValue(cfg.Out, analysis); err != nil {
			return err
		}
		logger.Info("analysis written", zap.String("path", cfg.Out))
	}
	return nil
}

func renderSheetSummary(s ledger.SheetSummary) error {
	fmt.Fprintf(os.Stdout, "\n%s: %d rows x %d columns\n", s.Name, s.Rows, s.Columns)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Column", "Non-empty", "Min", "Max", "Mean")
	for _, c := range s.Stats {
		row := []any{c.Name, fmt.Sprintf("%d", c.NonEmpty), "", "", ""}
		if c.Numeric {
			row[2] = fmt.Sprintf("%g", *c.Min)
			row[3] = fmt.Sprintf("%g", *c.Max)
			row[4] = fmt.Sprintf("%.4f", *c.Mean)
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

func printDetail(d ledger.Detail) {
	fmt.Fprintf(os.Stdout, "\n%s: %d total rows\n", d.Sheet, len(d.TotalRows))
	for _, r := range d.TotalRows {
		fmt.Fprintf(os.Stdout, "  %s\n", strings.Join(r, " | "))
	}
	fmt.Fprintf(os.Stdout, "wallets: %s\n", strings.Join(d.Wallets, ", "))
	if d.SumColumn != "" {
		fmt.Fprintf(os.Stdout, "sum of %s: %.2f\n", d.SumColumn, d.Sum)
	}
}
