package rank

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"yieldScope/internal/model"
	"yieldScope/internal/pool"
)

// DefaultMinReserve is the minimum pool reserve considered for ranking.
const DefaultMinReserve = 100_000.0

// YieldFunc computes every window result for a selected pool.
type YieldFunc func(model.PoolRecord) []model.YieldResult

// KeyFunc extracts the ranking key from an entry.
type KeyFunc func(model.RankedEntry) float64

// Config controls selection and ordering.
type Config struct {
	MinReserve float64
	Eligible   pool.Predicate
	Yields     YieldFunc
	Key        KeyFunc
	// Limit truncates the ranked list; zero or negative keeps every entry.
	Limit int
}

// Stats counts how the input records were disposed of.
type Stats struct {
	Total        int
	NoFeeTier    int
	Ineligible   int
	BelowReserve int
	Kept         int
}

// Pipeline filters pools and orders them by yield.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Pipeline.
func New(cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Select keeps, in arrival order, the records with a fee tier, two allowed
// legs and enough reserve. Kept records have their token and fee fields set.
func (p *Pipeline) Select(records []model.PoolRecord) ([]model.PoolRecord, Stats) {
	stats := Stats{Total: len(records)}
	kept := make([]model.PoolRecord, 0, len(records))

	for _, rec := range records {
		name, ok := pool.ParseName(rec.Name)
		if !ok || name.FeeTier == nil {
			stats.NoFeeTier++
			p.logger.Debug("skip pool without fee tier", zap.String("name", rec.Name), zap.String("address", rec.Address))
			continue
		}
		if p.cfg.Eligible != nil && !p.cfg.Eligible(rec.Name) {
			stats.Ineligible++
			p.logger.Debug("skip ineligible pool", zap.String("name", rec.Name))
			continue
		}
		if rec.Reserve < p.cfg.MinReserve || math.IsNaN(rec.Reserve) {
			stats.BelowReserve++
			continue
		}

		rec.TokenA = name.TokenA
		rec.TokenB = name.TokenB
		rec.FeeTier = name.FeeTier
		kept = append(kept, rec)
	}

	stats.Kept = len(kept)
	return kept, stats
}

// Rank computes yields for selected records, sorts them by key descending
// keeping arrival order among ties, and truncates to the configured limit.
func (p *Pipeline) Rank(selected []model.PoolRecord) []model.RankedEntry {
	entries := make([]model.RankedEntry, 0, len(selected))
	for _, rec := range selected {
		entry := model.RankedEntry{Pool: rec}
		if p.cfg.Yields != nil {
			entry.Yields = p.cfg.Yields(rec)
		}
		entries = append(entries, entry)
	}

	key := p.cfg.Key
	if key == nil {
		key = func(model.RankedEntry) float64 { return 0 }
	}
	return SortAndTruncate(entries, key, p.cfg.Limit)
}

// Run is Select followed by Rank.
func (p *Pipeline) Run(records []model.PoolRecord) ([]model.RankedEntry, Stats) {
	selected, stats := p.Select(records)
	p.logger.Info("pools selected",
		zap.Int("total", stats.Total),
		zap.Int("no_fee_tier", stats.NoFeeTier),
		zap.Int("ineligible", stats.Ineligible),
		zap.Int("below_reserve", stats.BelowReserve),
		zap.Int("kept", stats.Kept),
	)
	return p.Rank(selected), stats
}

// SortAndTruncate stable-sorts entries by key descending, assigns 1-based
// ranks and keeps at most limit entries (all when limit <= 0).
func SortAndTruncate(entries []model.RankedEntry, key KeyFunc, limit int) []model.RankedEntry {
	keys := make([]float64, len(entries))
	for i, e := range entries {
		keys[i] = sanitize(key(e))
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] > keys[idx[b]]
	})

	n := len(entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.RankedEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := entries[idx[i]]
		entry.Rank = i + 1
		out = append(out, entry)
	}
	return out
}

// ByWindow ranks by the APY of the named window; entries without it score 0.
func ByWindow(window string) KeyFunc {
	return func(e model.RankedEntry) float64 {
		y, ok := e.Yield(window)
		if !ok {
			return 0
		}
		return y.APY
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
