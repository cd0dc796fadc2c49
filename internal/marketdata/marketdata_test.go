package marketdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hedger/internal/domain"
)

const returnsCSV = `Date,A,B
2024-01-02,1,-2
2024-01-03,2,1
2024-01-04,-1,0
`

func TestReadReturns_ScalesPercentagePoints(t *testing.T) {
	m, err := ReadReturns(strings.NewReader(returnsCSV), DefaultReturnsScale)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, m.Dates)
	assert.Equal(t, []string{"A", "B"}, m.Columns)
	require.Equal(t, 3, m.NumRows())

	a, _ := m.Column("A")
	assert.InDeltaSlice(t, []float64{0.01, 0.02, -0.01}, a, 1e-15)
	b, _ := m.Column("B")
	assert.InDeltaSlice(t, []float64{-0.02, 0.01, 0}, b, 1e-15)
}

func TestReadReturns_DateColumnAnywhere(t *testing.T) {
	input := "\ufeffX, Date ,Y\n5,2024-01-02,10\n"

	m, err := ReadReturns(strings.NewReader(input), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "Y"}, m.Columns)
	assert.Equal(t, []string{"2024-01-02"}, m.Dates)
	assert.Equal(t, [][]float64{{5, 10}}, m.Rows)
}

func TestReadReturns_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		scale float64
	}{
		{"empty file", "", 100},
		{"missing date column", "A,B\n1,2\n", 100},
		{"non numeric cell", "Date,A\n2024-01-02,abc\n", 100},
		{"ragged row", "Date,A,B\n2024-01-02,1\n", 100},
		{"duplicate instrument", "Date,A,A\n2024-01-02,1,2\n", 100},
		{"duplicate date column", "Date,A,Date\n2024-01-02,1,2024-01-02\n", 100},
		{"zero scale", returnsCSV, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadReturns(strings.NewReader(tt.input), tt.scale)
			assert.Error(t, err)
		})
	}

	_, err := ReadReturns(strings.NewReader("Date,A\n2024-01-02,abc\n"), 100)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "line 2 column A")

	_, err = ReadReturns(strings.NewReader("Date,A,A\n2024-01-02,1,2\n"), 100)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.ErrorIs(t, err, domain.ErrColumnCollision)

	_, err = ReadReturns(strings.NewReader("Date,A, Date\n2024-01-02,1,2024-01-02\n"), 100)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.ErrorIs(t, err, domain.ErrColumnCollision)
	assert.Contains(t, err.Error(), "repeats the Date column")
}

func TestLoadReturnsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks_returns.csv")
	require.NoError(t, os.WriteFile(path, []byte(returnsCSV), 0o600))

	m, err := LoadReturnsFile(path, DefaultReturnsScale)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumRows())

	_, err = LoadReturnsFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultReturnsScale)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadMetadata(t *testing.T) {
	input := "Stock_Id,Sector,Country\nA,Tech,US\nB, Energy ,UK\n"

	md, err := ReadMetadata(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, md, 2)
	assert.Equal(t, "Tech", md["A"].Fields["Sector"])
	assert.Equal(t, "Energy", md["B"].Fields["Sector"])
	assert.Equal(t, "UK", md["B"].Fields["Country"])
	assert.Equal(t, []string{"C"}, md.Missing([]string{"A", "C", "B"}))
	assert.Nil(t, md.Missing([]string{"A"}))
}

func TestReadMetadata_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "",
		"blank id":     "Stock_Id,Sector\n,Tech\n",
		"duplicate id": "Stock_Id,Sector\nA,Tech\nA,Energy\n",
		"ragged":       "Stock_Id,Sector\nA\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMetadata(strings.NewReader(input))
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestLoadMetadataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks_metadata.csv")
	require.NoError(t, os.WriteFile(path, []byte("Stock_Id,Sector\nA,Tech\n"), 0o600))

	md, err := LoadMetadataFile(path)
	require.NoError(t, err)
	assert.Contains(t, md, "A")
}

func TestParsePortfolioLine(t *testing.T) {
	series, err := ParsePortfolioLine("  P1 0.01\t0.02  -0.01 \n")
	require.NoError(t, err)

	assert.Equal(t, "P1", series.ID)
	assert.Equal(t, []float64{0.01, 0.02, -0.01}, series.PnL)
}

func TestParsePortfolioLine_IDOnly(t *testing.T) {
	series, err := ParsePortfolioLine("P1")
	require.NoError(t, err)

	assert.Equal(t, "P1", series.ID)
	assert.Empty(t, series.PnL)
}

func TestParsePortfolioLine_Errors(t *testing.T) {
	_, err := ParsePortfolioLine("   ")
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = ParsePortfolioLine("P1 0.01 oops 0.02")
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), `token 2 ("oops")`)
}

func TestReadPortfolio(t *testing.T) {
	series, err := ReadPortfolio(strings.NewReader("P7 1 2 3\nignored line\n"))
	require.NoError(t, err)
	assert.Equal(t, "P7", series.ID)
	assert.Equal(t, []float64{1, 2, 3}, series.PnL)

	_, err = ReadPortfolio(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrParse)
}
