package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"yieldScope/internal/model"
)

func sampleReport() model.Report {
	fee := 0.3
	return model.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		RankBy:      model.Window30d,
		Status:      model.StatusOK,
		Entries: []model.RankedEntry{
			{
				Rank: 1,
				Pool: model.PoolRecord{
					Address: "0xabc", Name: "WETH / USDT 0.3%", TokenA: "WETH", TokenB: "USDT",
					FeeTier: &fee, Volume24h: 1_000_000, Reserve: 500_000, Txns24h: 1234,
					CreatedAt: "2021-05-05T10:00:00Z",
				},
				Yields: []model.YieldResult{
					{Window: model.Window24h, APY: 219, Fees: 3000, TVL: 500_000, Volume: 1_000_000, Days: 1},
					{Window: model.Window30d, APY: 182.5, Fees: 50_000, TVL: 1_000_000, Volume: 9_000_000, Days: 10},
					{Window: model.WindowCombined, APY: 193.45},
				},
			},
			{
				Rank: 2,
				Pool: model.PoolRecord{Address: "0xdef", Name: "WBTC / WETH 0.05%", FeeTier: nil, Reserve: 2_000_000},
				Yields: []model.YieldResult{
					{Window: model.Window24h, APY: 10, Days: 1},
					{Window: model.Window30d, APY: 10, Days: 30, Estimated: true},
				},
			},
		},
		Summary: model.RunSummary{PagesFetched: 10, RecordsFetched: 200, Kept: 2},
	}
}

func TestFlatten(t *testing.T) {
	r := sampleReport()
	flat := Flatten(r.Entries[0])

	assert.Equal(t, 1, flat["rank"])
	assert.Equal(t, 219.0, flat["apy_24h"])
	assert.Equal(t, 3000.0, flat["fees_24h"])
	assert.Equal(t, 500_000.0, flat["tvl_24h"])
	assert.Equal(t, 1_000_000.0, flat["avg_tvl_30d"])
	assert.Equal(t, 10.0, flat["days_30d"])
	assert.Equal(t, 193.45, flat["apy_combined"])
	assert.NotContains(t, flat, "fees_combined")
	assert.Equal(t, true, flat["has_real_30d_data"])

	assert.Equal(t, false, Flatten(r.Entries[1])["has_real_30d_data"])
}

func TestFlattenTVLKeyByWindow(t *testing.T) {
	oneDay := model.RankedEntry{Yields: []model.YieldResult{
		{Window: model.Window24h, TVL: 900, Days: 1},
		{Window: model.Window30d, TVL: 1000, Fees: 1, Days: 1},
	}}
	flat := Flatten(oneDay)
	assert.Equal(t, 900.0, flat["tvl_24h"])
	assert.Equal(t, 1000.0, flat["avg_tvl_30d"])
	assert.NotContains(t, flat, "tvl_30d")
	assert.NotContains(t, flat, "avg_tvl_24h")

	week := model.RankedEntry{Yields: []model.YieldResult{{Window: "7d", TVL: 5, Days: 7, Estimated: true}}}
	flat = Flatten(week)
	assert.Equal(t, 5.0, flat["avg_tvl_7d"])
	assert.Equal(t, false, flat["has_real_7d_data"])
	assert.NotContains(t, flat, "has_real_30d_data")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "top.json")
	require.NoError(t, WriteJSON(path, sampleReport().Entries))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "0xabc", decoded[0]["address"])
	assert.Nil(t, decoded[1]["fee_tier"])

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteJSON(empty, nil))
	raw, err = os.ReadFile(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown{Links: DefaultLinks}.Write(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "# Top 2 pools by 30d APY")
	assert.Contains(t, out, "## 1. WETH / USDT 0.3%")
	assert.Contains(t, out, "**Volume 24h:** $1,000,000.00")
	assert.Contains(t, out, "**Fee tier:** 0.3%")
	assert.Contains(t, out, "**APY 24h:** 219.00%")
	assert.Contains(t, out, "**Transactions 24h:** 1,234")
	assert.Contains(t, out, "**Created:** 2021-05-05")
	assert.Contains(t, out, "10 days of history")
	assert.Contains(t, out, "https://app.uniswap.org/explore/pools/ethereum/0xabc")
	assert.Contains(t, out, "**APY 30d:** 10.00% (estimated)")
	assert.Contains(t, out, "**Fee tier:** n/a")
}

func TestMarkdownEmpty(t *testing.T) {
	r := sampleReport()
	r.Entries = nil
	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Write(&buf, r))
	assert.Contains(t, buf.String(), "No eligible pools.")

	r.Status = model.StatusNoData
	buf.Reset()
	require.NoError(t, Markdown{}.Write(&buf, r))
	assert.Contains(t, buf.String(), "No pool data fetched.")
	assert.NotContains(t, buf.String(), "No eligible pools.")
}

func TestEmptyReportMessages(t *testing.T) {
	r := sampleReport()
	r.Entries = nil
	r.Status = model.StatusNoData
	tg := NewTelegramWithSender(&fakeSender{}, 1, DefaultLinks)
	assert.Contains(t, tg.Format(r), "No pool data fetched\\.")

	var buf bytes.Buffer
	require.NoError(t, NewTable(&buf).Render(r))
	assert.Contains(t, buf.String(), "No pool data fetched.")

	r.Status = model.StatusNoEligible
	assert.Contains(t, tg.Format(r), "No eligible pools\\.")
}

func TestExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.xlsx")
	require.NoError(t, Excel{Links: Links{Dex: "uniswap", Chain: "base"}}.WriteFile(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{poolsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(poolsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Contains(t, rows[0], "APY combined")
	assert.Equal(t, "WETH / USDT 0.3%", rows[1][1])
	assert.Equal(t, "https://app.uniswap.org/explore/pools/base/0xabc", rows[1][len(rows[1])-1])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pools ranked", "2"}, summary[4])
	assert.Equal(t, []string{"Status", "ok"}, summary[5])
}

func TestWritePositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.xlsx")
	positions := []model.Position{{ID: "1", Pool: "WETH/USDC", InRange: true, DepositedUSD: 1000, FeesUSD: 10, ROI: 1}}
	require.NoError(t, WritePositions(path, positions, model.PositionSummary{Total: 1, InRange: 1}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(positionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "WETH/USDC", rows[1][2])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total Positions", "1"}, summary[1])
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable(&buf).Render(sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "WETH / USDT 0.3%")
	assert.Contains(t, out, "219.00%")
	assert.Contains(t, out, "10.00%*")
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegram(t *testing.T) {
	sender := &fakeSender{}
	tg := NewTelegramWithSender(sender, 42, DefaultLinks)
	require.NoError(t, tg.Send(sampleReport()))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	assert.Contains(t, msg.Text, "1\\. [WETH / USDT 0\\.3%](https://app.uniswap.org/explore/pools/ethereum/0xabc)")
	assert.Contains(t, msg.Text, "APY *182\\.50%*")
	assert.Contains(t, msg.Text, "10\\.00% est\\.")

	sender.err = errors.New("forbidden")
	assert.ErrorContains(t, tg.Send(sampleReport()), "forbidden")
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `a\_b\.c\!`, escapeMarkdownV2("a_b.c!"))
}
