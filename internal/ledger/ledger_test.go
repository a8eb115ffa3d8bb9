package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Дата", "Кошель", "Сумма", nil, "Комиссия"},
		{"2025-01-01", "main", 100, "x", 1.5},
		{"2025-01-02", "main", 300, nil, 2.5},
		{"2025-01-03", "alt", "n/a", nil, "-"},
		{"Итого main", nil, 400, nil, 4},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadAndSummarize(t *testing.T) {
	sheets, err := Read(writeWorkbook(t), "")
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	s := sheets[0]
	assert.Equal(t, []string{"Дата", "Кошель", "Сумма", "Unnamed: 3", "Комиссия"}, s.Columns)

	sum := s.Summarize()
	assert.Equal(t, 4, sum.Rows)
	assert.Equal(t, 5, sum.Columns)

	wallet := sum.Stats[1]
	assert.Equal(t, 3, wallet.NonEmpty)
	assert.False(t, wallet.Numeric)

	amount := sum.Stats[2]
	assert.Equal(t, 4, amount.NonEmpty)
	assert.False(t, amount.Numeric, "n/a makes the column non-numeric")

	unnamed := sum.Stats[3]
	assert.Equal(t, 1, unnamed.NonEmpty)

	empty := sheets[1].Summarize()
	assert.Equal(t, 0, empty.Rows)
	assert.Empty(t, empty.Stats)
}

func TestSummarizeNumeric(t *testing.T) {
	s := newSheet("s", [][]string{{"a"}, {"1"}, {""}, {"3"}, {"8"}})
	st := s.Summarize().Stats[0]
	require.True(t, st.Numeric)
	assert.Equal(t, 3, st.NonEmpty)
	assert.Equal(t, 1.0, *st.Min)
	assert.Equal(t, 8.0, *st.Max)
	assert.Equal(t, 4.0, *st.Mean)
}

func TestDetail(t *testing.T) {
	sheets, err := Read(writeWorkbook(t), "Sheet1")
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	d, err := sheets[0].Detail(DetailOptions{
		MarkerColumn: "Дата",
		Marker:       "Итого",
		WalletColumn: "Кошель",
		SumColumn:    "Комиссия",
	})
	require.NoError(t, err)
	require.Len(t, d.TotalRows, 1)
	assert.Equal(t, "Итого main", d.TotalRows[0][0])
	assert.Equal(t, []string{"main", "alt"}, d.Wallets)
	assert.InDelta(t, 8.0, d.Sum, 1e-9)

	_, err = sheets[0].Detail(DetailOptions{WalletColumn: "missing"})
	assert.Error(t, err)
}

func TestReadMissingSheet(t *testing.T) {
	_, err := Read(writeWorkbook(t), "Nope")
	assert.Error(t, err)
}
