package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldScope/internal/model"
)

func report(runID string, names ...string) model.Report {
	r := model.Report{RunID: runID, GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), RankBy: model.Window30d}
	for i, name := range names {
		r.Entries = append(r.Entries, model.RankedEntry{
			Rank:   i + 1,
			Pool:   model.PoolRecord{Name: name, Address: "0x" + name},
			Yields: []model.YieldResult{{Window: model.Window30d, APY: float64(10 - i)}},
		})
	}
	return r
}

func TestJsonlAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist", "runs.jsonl")
	s := NewJsonlStorage(path)

	require.NoError(t, s.PutReport(context.Background(), report("r1", "a", "b")))
	require.NoError(t, s.PutReport(context.Background(), report("r2", "c")))
	require.NoError(t, s.PutReport(context.Background(), report("r3")))

	lines, err := ReadHistory(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "r1", lines[0].RunID)
	assert.Equal(t, 2, lines[1].Rank)
	assert.Equal(t, "0xb", lines[1].Pool.Address)
	assert.Equal(t, "r2", lines[2].RunID)
	assert.Equal(t, 10.0, lines[2].Yields[0].APY)
}

type failing struct{ err error }

func (f failing) PutReport(context.Context, model.Report) error { return f.err }

func TestMulti(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	boom := errors.New("boom")
	m := Multi{failing{boom}, nil, NewJsonlStorage(path)}

	err := m.PutReport(context.Background(), report("r1", "a"))
	assert.ErrorIs(t, err, boom)

	lines, err := ReadHistory(path)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "later sinks still run")
}
