package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldScope/internal/model"
)

type historyByAddr map[string]any

func (h historyByAddr) PoolDayData(_ context.Context, addr string, _ int) ([]model.DayData, error) {
	switch v := h[addr].(type) {
	case error:
		return nil, v
	case []model.DayData:
		return v, nil
	}
	return nil, nil
}

func TestHistoryRunner(t *testing.T) {
	src := historyByAddr{
		"0xa": []model.DayData{
			{FeesUSD: 100, TVLUSD: 100_000, VolumeUSD: 30_000},
			{FeesUSD: 200, TVLUSD: 300_000, VolumeUSD: 70_000},
		},
		"0xb": errors.New("bad indexer"),
		"0xd": []model.DayData{{FeesUSD: 1, TVLUSD: 1_000_000, VolumeUSD: 10}},
	}
	pools := []TrackedPool{{"B", "0xb"}, {"A", "0xa"}, {"C", "0xc"}, {"D", "0xd"}}

	results, err := NewHistoryRunner(pools, 30, src, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	a := results[0]
	assert.Equal(t, "A", a.Name)
	assert.InDelta(t, 300.0/200_000*365/2*100, a.APY, 1e-9)
	assert.Equal(t, 200_000.0, a.AvgTVL)
	assert.Equal(t, 50_000.0, a.AvgDailyVolume)
	assert.Equal(t, 2, a.Days)
	assert.Equal(t, "The Graph", a.Source)
	assert.Equal(t, "30d", a.Window)

	assert.Equal(t, "D", results[1].Name)
	assert.Equal(t, "B", results[2].Name, "failures keep input order")
	assert.Equal(t, "bad indexer", results[2].Error)
	assert.Zero(t, results[2].APY)
	assert.Equal(t, "C", results[3].Name)
	assert.Contains(t, results[3].Error, "no pool day data")
}

func TestHistoryRunnerAllFail(t *testing.T) {
	src := historyByAddr{"0xa": errors.New("down")}
	results, err := NewHistoryRunner([]TrackedPool{{"A", "0xa"}}, 30, src, nil, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
	assert.Len(t, results, 1)
}
