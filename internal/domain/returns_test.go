package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrix(t *testing.T) *ReturnMatrix {
	t.Helper()
	m, err := NewReturnMatrix(
		[]string{"2024-01-02", "2024-01-03", "2024-01-04"},
		[]string{"A", "B"},
		[][]float64{
			{0.01, -0.02},
			{0.02, 0.01},
			{-0.01, 0.00},
		},
	)
	require.NoError(t, err)
	return m
}

func TestNewReturnMatrix_Validation(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		columns []string
		rows    [][]float64
		wantErr error
	}{
		{
			name:    "dates and rows disagree",
			dates:   []string{"d1"},
			columns: []string{"A"},
			rows:    [][]float64{{1}, {2}},
			wantErr: ErrInputShape,
		},
		{
			name:    "ragged row",
			dates:   []string{"d1", "d2"},
			columns: []string{"A", "B"},
			rows:    [][]float64{{1, 2}, {3}},
			wantErr: ErrInputShape,
		},
		{
			name:    "duplicate column",
			dates:   []string{"d1"},
			columns: []string{"A", "A"},
			rows:    [][]float64{{1, 2}},
			wantErr: ErrColumnCollision,
		},
		{
			name:    "date used as instrument",
			dates:   []string{"d1"},
			columns: []string{DateColumn},
			rows:    [][]float64{{1}},
			wantErr: ErrColumnCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReturnMatrix(tt.dates, tt.columns, tt.rows)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReturnMatrix_Column(t *testing.T) {
	m := sampleMatrix(t)

	col, ok := m.Column("B")
	require.True(t, ok)
	assert.Equal(t, []float64{-0.02, 0.01, 0.00}, col)

	col[0] = 99
	again, _ := m.Column("B")
	assert.Equal(t, -0.02, again[0], "Column must return a copy")

	_, ok = m.Column("missing")
	assert.False(t, ok)
	assert.True(t, m.HasColumn("A"))
	assert.False(t, m.HasColumn(DateColumn))
}

func TestReturnMatrix_WithColumnAppends(t *testing.T) {
	m := sampleMatrix(t)

	out, err := m.WithColumn("P1", []float64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "P1"}, out.Columns)
	col, ok := out.Column("P1")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, col)

	// Receiver is untouched
	assert.Equal(t, []string{"A", "B"}, m.Columns)
	for _, row := range m.Rows {
		assert.Len(t, row, 2)
	}
}

func TestReturnMatrix_WithColumnReplaces(t *testing.T) {
	m := sampleMatrix(t)

	out, err := m.WithColumn("A", []float64{7, 8, 9})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, out.Columns)
	col, _ := out.Column("A")
	assert.Equal(t, []float64{7, 8, 9}, col)

	orig, _ := m.Column("A")
	assert.Equal(t, []float64{0.01, 0.02, -0.01}, orig)
}

func TestReturnMatrix_WithColumnErrors(t *testing.T) {
	m := sampleMatrix(t)

	_, err := m.WithColumn("P1", []float64{1, 2})
	assert.ErrorIs(t, err, ErrInputShape)

	_, err = m.WithColumn(DateColumn, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrColumnCollision)
}

func TestReturnMatrix_DesignMatrix(t *testing.T) {
	m := sampleMatrix(t)
	withP, err := m.WithColumn("P1", []float64{1, 2, 3})
	require.NoError(t, err)

	dm, err := withP.DesignMatrix("P1")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, dm.Instruments)
	rows, cols := dm.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 0.02, dm.X.At(1, 0))
	assert.Equal(t, -0.02, dm.X.At(0, 1))
}

func TestReturnMatrix_DesignMatrixNoCandidates(t *testing.T) {
	m, err := NewReturnMatrix([]string{"d1"}, []string{"P1"}, [][]float64{{1}})
	require.NoError(t, err)

	_, err = m.DesignMatrix("P1")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestReturnMatrix_DesignMatrixNoRows(t *testing.T) {
	m, err := NewReturnMatrix(nil, []string{"A"}, nil)
	require.NoError(t, err)

	_, err = m.DesignMatrix()
	assert.ErrorIs(t, err, ErrInputShape)
}

func TestHedgePosition_String(t *testing.T) {
	assert.Equal(t, "A -1", HedgePosition{Instrument: "A", Quantity: -1}.String())
	assert.Equal(t, "XYZ 12", HedgePosition{Instrument: "XYZ", Quantity: 12}.String())
}
