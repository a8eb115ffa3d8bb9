package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yieldScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS ranking_runs (
	run_id       TEXT PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	rank_by      TEXT NOT NULL,
	summary      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS pool_rankings (
	run_id             TEXT NOT NULL REFERENCES ranking_runs (run_id) ON DELETE CASCADE,
	rank               INTEGER NOT NULL,
	pool_address       TEXT NOT NULL,
	name               TEXT NOT NULL,
	token_a            TEXT NOT NULL,
	token_b            TEXT NOT NULL,
	fee_tier           DOUBLE PRECISION,
	reserve_usd        DOUBLE PRECISION NOT NULL,
	volume_24h         DOUBLE PRECISION NOT NULL,
	txns_24h           BIGINT NOT NULL,
	apy_24h            DOUBLE PRECISION,
	long_window        TEXT,
	apy_long           DOUBLE PRECISION,
	apy_combined       DOUBLE PRECISION,
	has_real_long_data BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, pool_address)
);
CREATE INDEX IF NOT EXISTS pool_rankings_pool_idx ON pool_rankings (pool_address);
`

// Store provides Postgres persistence for ranking runs.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Ranking is one pool_rankings row.
type Ranking struct {
	Rank            int
	PoolAddress     string
	Name            string
	TokenA          string
	TokenB          string
	FeeTier         *float64
	Reserve         float64
	Volume24h       float64
	Txns24h         int64
	APY24h          *float64
	LongWindow      *string
	APYLong         *float64
	APYCombined     *float64
	HasRealLongData bool
}

// Rankings flattens report entries into table rows. Missing windows are NULL.
func Rankings(report model.Report) []Ranking {
	rows := make([]Ranking, 0, len(report.Entries))
	for _, e := range report.Entries {
		row := Ranking{
			Rank:        e.Rank,
			PoolAddress: e.Pool.Address,
			Name:        e.Pool.Name,
			TokenA:      e.Pool.TokenA,
			TokenB:      e.Pool.TokenB,
			FeeTier:     e.Pool.FeeTier,
			Reserve:     e.Pool.Reserve,
			Volume24h:   e.Pool.Volume24h,
			Txns24h:     e.Pool.Txns24h,
		}
		if y, ok := e.Yield(model.Window24h); ok {
			row.APY24h = &y.APY
		}
		if y, ok := e.Long(); ok {
			row.LongWindow = &y.Window
			row.APYLong = &y.APY
			row.HasRealLongData = !y.Estimated
		}
		if y, ok := e.Yield(model.WindowCombined); ok {
			row.APYCombined = &y.APY
		}
		rows = append(rows, row)
	}
	return rows
}

// PutReport inserts the run and its rankings in one batch. A run id that
// already exists has its rankings replaced.
func (s *Store) PutReport(ctx context.Context, report model.Report) error {
	summary, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	rows := Rankings(report)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO ranking_runs (run_id, generated_at, rank_by, summary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id)
		DO UPDATE SET
			generated_at = EXCLUDED.generated_at,
			rank_by = EXCLUDED.rank_by,
			summary = EXCLUDED.summary
	`, report.RunID, report.GeneratedAt, report.RankBy, summary)
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO pool_rankings (
				run_id, rank, pool_address, name, token_a, token_b, fee_tier, reserve_usd,
				volume_24h, txns_24h, apy_24h, long_window, apy_long, apy_combined, has_real_long_data
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			ON CONFLICT (run_id, pool_address)
			DO UPDATE SET
				rank = EXCLUDED.rank,
				name = EXCLUDED.name,
				token_a = EXCLUDED.token_a,
				token_b = EXCLUDED.token_b,
				fee_tier = EXCLUDED.fee_tier,
				reserve_usd = EXCLUDED.reserve_usd,
				volume_24h = EXCLUDED.volume_24h,
				txns_24h = EXCLUDED.txns_24h,
				apy_24h = EXCLUDED.apy_24h,
				long_window = EXCLUDED.long_window,
				apy_long = EXCLUDED.apy_long,
				apy_combined = EXCLUDED.apy_combined,
				has_real_long_data = EXCLUDED.has_real_long_data
		`,
			report.RunID,
			r.Rank,
			r.PoolAddress,
			r.Name,
			r.TokenA,
			r.TokenB,
			r.FeeTier,
			r.Reserve,
			r.Volume24h,
			r.Txns24h,
			r.APY24h,
			r.LongWindow,
			r.APYLong,
			r.APYCombined,
			r.HasRealLongData,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("store ranking run: %w", err)
		}
	}
	return nil
}

// LatestRun returns the id of the most recent run, if any.
func (s *Store) LatestRun(ctx context.Context) (string, bool, error) {
	var runID string
	row := s.pool.QueryRow(ctx, `SELECT run_id FROM ranking_runs ORDER BY generated_at DESC LIMIT 1`)
	if err := row.Scan(&runID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return runID, true, nil
}
