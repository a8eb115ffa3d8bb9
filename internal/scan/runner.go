// Package scan runs one ranking pass: pool pages in, ranked report out.
package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yieldScope/internal/allowlist"
	"yieldScope/internal/fetch"
	"yieldScope/internal/model"
	"yieldScope/internal/pool"
	"yieldScope/internal/rank"
	"yieldScope/internal/source/gecko"
	"yieldScope/internal/yield"
)

var (
	// ErrNoData means no pool record could be obtained at all.
	ErrNoData = errors.New("no pool data fetched")
	// ErrNoEligible means records were fetched but none survived filtering.
	ErrNoEligible = errors.New("no eligible pools")
)

// PageFetcher returns one page of the pool listing with its raw body.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (gecko.Page, []byte, error)
}

// HistoryFetcher returns up to days daily records for a pool.
type HistoryFetcher interface {
	PoolDayData(ctx context.Context, poolAddress string, days int) ([]model.DayData, error)
}

// RunConfig holds runtime settings for a scan.
type RunConfig struct {
	Pages int
	// PagesDir is read instead of the network unless SavePages is set,
	// in which case fetched pages are written there.
	PagesDir     string
	SavePages    bool
	MinReserve   float64
	Top          int
	LookbackDays int
	// RankBy is 24h, combined or the long window label; empty means the
	// long window.
	RankBy  string
	Weights yield.Weights
}

// Runner fetches, filters and ranks pools.
type Runner struct {
	cfg       RunConfig
	allowlist *allowlist.Allowlist
	pages     PageFetcher
	history   HistoryFetcher
	breaker   *fetch.Breaker
	logger    *zap.Logger
	now       func() time.Time
}

// NewRunner builds a Runner. history may be nil, in which case long windows
// are estimated from the 24h snapshot.
func NewRunner(cfg RunConfig, al *allowlist.Allowlist, pages PageFetcher, history HistoryFetcher, breaker *fetch.Breaker, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	if cfg.RankBy == "" {
		cfg.RankBy = model.LongWindow(cfg.LookbackDays)
	}
	return &Runner{
		cfg:       cfg,
		allowlist: al,
		pages:     pages,
		history:   history,
		breaker:   breaker,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one scan. The returned report is always usable, even
// alongside ErrNoData or ErrNoEligible.
func (r *Runner) Run(ctx context.Context) (model.Report, error) {
	report := model.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: r.now().UTC(),
		RankBy:      r.cfg.RankBy,
		Status:      model.StatusOK,
		Entries:     []model.RankedEntry{},
	}

	records, err := r.collect(ctx, &report.Summary)
	if err != nil {
		return report, err
	}
	if len(records) == 0 {
		r.logSummary(report.Summary)
		report.Status = model.StatusNoData
		return report, ErrNoData
	}

	// Filled between Select and Rank.
	histories := make(map[string][]model.DayData)
	pipeline := rank.New(rank.Config{
		MinReserve: r.cfg.MinReserve,
		Eligible:   pool.EligibleWith(r.allowlist),
		Yields:     r.yields(histories),
		Key:        rank.ByWindow(r.cfg.RankBy),
		Limit:      r.cfg.Top,
	}, r.logger)

	selected, stats := pipeline.Select(records)
	report.Summary.NoFeeTier = stats.NoFeeTier
	report.Summary.Ineligible = stats.Ineligible
	report.Summary.BelowReserve = stats.BelowReserve
	report.Summary.Kept = stats.Kept
	if len(selected) == 0 {
		r.logSummary(report.Summary)
		report.Status = model.StatusNoEligible
		return report, ErrNoEligible
	}

	r.fetchHistories(ctx, selected, histories, &report.Summary)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Entries = pipeline.Rank(selected)

	r.logSummary(report.Summary)
	return report, nil
}

func (r *Runner) collect(ctx context.Context, summary *model.RunSummary) ([]model.PoolRecord, error) {
	if r.cfg.PagesDir != "" && !r.cfg.SavePages {
		return r.collectFiles(summary)
	}
	if r.pages == nil {
		return nil, fmt.Errorf("page fetcher is nil")
	}

	var records []model.PoolRecord
	for n := 1; n <= r.cfg.Pages; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r.logger.Info("fetch page", zap.Int("page", n))
		page, raw, err := r.pages.FetchPage(ctx, n)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			summary.PagesFailed++
			summary.Failures = append(summary.Failures, fmt.Sprintf("page %d: %v", n, err))
			r.logger.Warn("page fetch failed", zap.Int("page", n), zap.Error(err))
			continue
		}
		summary.PagesFetched++

		if r.cfg.SavePages {
			if err := gecko.SavePage(r.cfg.PagesDir, n, raw); err != nil {
				r.logger.Warn("save page failed", zap.Int("page", n), zap.Error(err))
			}
		}

		if len(page.Data) == 0 {
			r.logger.Info("listing exhausted", zap.Int("page", n))
			break
		}
		records = append(records, r.pageRecords(page, summary)...)
	}
	return records, nil
}

func (r *Runner) collectFiles(summary *model.RunSummary) ([]model.PoolRecord, error) {
	files, err := gecko.PageFiles(r.cfg.PagesDir)
	if err != nil {
		return nil, err
	}
	var records []model.PoolRecord
	for _, path := range files {
		page, err := gecko.ReadPageFile(path)
		if err != nil {
			summary.PagesFailed++
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", path, err))
			r.logger.Warn("page file unreadable", zap.String("path", path), zap.Error(err))
			continue
		}
		summary.PagesFetched++
		records = append(records, r.pageRecords(page, summary)...)
	}
	return records, nil
}

func (r *Runner) pageRecords(page gecko.Page, summary *model.RunSummary) []model.PoolRecord {
	records, errs := page.Records()
	for _, err := range errs {
		r.logger.Debug("skip malformed record", zap.Error(err))
	}
	summary.Malformed += len(errs)
	summary.RecordsFetched += len(records)
	return records
}

func (r *Runner) fetchHistories(ctx context.Context, selected []model.PoolRecord, histories map[string][]model.DayData, summary *model.RunSummary) {
	if r.history == nil {
		return
	}

	for _, rec := range selected {
		if ctx.Err() != nil {
			return
		}
		var days []model.DayData
		err := r.breaker.Do(func() error {
			var err error
			days, err = r.history.PoolDayData(ctx, rec.Address, r.cfg.LookbackDays)
			return err
		})
		if err != nil {
			summary.HistoryFailed++
			summary.Failures = append(summary.Failures, fmt.Sprintf("history %s: %v", rec.Address, err))
			r.logger.Warn("history fetch failed", zap.String("pool", rec.Name), zap.String("address", rec.Address), zap.Error(err))
			continue
		}
		summary.HistoryFetched++
		if len(days) > 0 {
			histories[rec.Address] = days
		}
	}
}

// yields returns the 24h, long-window and combined results for a pool. A
// pool without history gets an estimated long window.
func (r *Runner) yields(histories map[string][]model.DayData) rank.YieldFunc {
	lookback := float64(r.cfg.LookbackDays)
	label := model.LongWindow(r.cfg.LookbackDays)
	return func(rec model.PoolRecord) []model.YieldResult {
		short := yield.Snapshot(model.Window24h, rec.Volume24h, rec.Reserve, rec.FeeTier, 1)

		var long model.YieldResult
		if days, ok := histories[rec.Address]; ok {
			long = yield.FromSeries(label, days)
		} else {
			long = yield.Estimate(label, short, rec.Reserve, lookback)
		}
		return []model.YieldResult{
			short,
			long,
			yield.Combine(model.WindowCombined, short, long, r.cfg.Weights),
		}
	}
}

func (r *Runner) logSummary(s model.RunSummary) {
	r.logger.Info("scan complete",
		zap.Int("pages_fetched", s.PagesFetched),
		zap.Int("pages_failed", s.PagesFailed),
		zap.Int("records", s.RecordsFetched),
		zap.Int("malformed", s.Malformed),
		zap.Int("no_fee_tier", s.NoFeeTier),
		zap.Int("ineligible", s.Ineligible),
		zap.Int("below_reserve", s.BelowReserve),
		zap.Int("kept", s.Kept),
		zap.Int("history_fetched", s.HistoryFetched),
		zap.Int("history_failed", s.HistoryFailed),
	)
	for _, f := range s.Failures {
		r.logger.Warn("failure", zap.String("detail", f))
	}
}
