// Package domain provides core domain models and types.
package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DateColumn is the reserved column holding the observation date.
const DateColumn = "Date"

// ReturnMatrix holds historical fractional returns, one row per date and one
// column per instrument. The Date column is kept apart in Dates.
type ReturnMatrix struct {
	Dates   []string
	Columns []string
	Rows    [][]float64
}

// NewReturnMatrix validates the shape and builds a ReturnMatrix.
func NewReturnMatrix(dates, columns []string, rows [][]float64) (*ReturnMatrix, error) {
	if len(dates) != len(rows) {
		return nil, fmt.Errorf("%w: %d dates for %d rows", ErrInputShape, len(dates), len(rows))
	}

	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == DateColumn {
			return nil, fmt.Errorf("%w: %q is reserved", ErrColumnCollision, DateColumn)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrColumnCollision, c)
		}
		seen[c] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrInputShape, i, len(row), len(columns))
		}
	}

	return &ReturnMatrix{Dates: dates, Columns: columns, Rows: rows}, nil
}

// NumRows returns the number of dated observations.
func (m *ReturnMatrix) NumRows() int {
	return len(m.Rows)
}

// HasColumn reports whether name is an instrument column.
func (m *ReturnMatrix) HasColumn(name string) bool {
	return m.columnIndex(name) >= 0
}

// Column returns a copy of the named column's values.
func (m *ReturnMatrix) Column(name string) ([]float64, bool) {
	idx := m.columnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		out[i] = row[idx]
	}
	return out, true
}

func (m *ReturnMatrix) columnIndex(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (m *ReturnMatrix) Clone() *ReturnMatrix {
	dates := make([]string, len(m.Dates))
	copy(dates, m.Dates)

	columns := make([]string, len(m.Columns))
	copy(columns, m.Columns)

	rows := make([][]float64, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = make([]float64, len(row))
		copy(rows[i], row)
	}

	return &ReturnMatrix{Dates: dates, Columns: columns, Rows: rows}
}

// WithColumn returns a copy with name set to values. An existing column is
// replaced in place, a new one is appended last. The receiver is untouched.
func (m *ReturnMatrix) WithColumn(name string, values []float64) (*ReturnMatrix, error) {
	if len(values) != m.NumRows() {
		return nil, fmt.Errorf("%w: %d values for %d rows", ErrInputShape, len(values), m.NumRows())
	}
	if name == DateColumn {
		return nil, fmt.Errorf("%w: %q is reserved", ErrColumnCollision, DateColumn)
	}

	out := m.Clone()
	idx := out.columnIndex(name)
	if idx < 0 {
		out.Columns = append(out.Columns, name)
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], values[i])
		}
		return out, nil
	}

	for i := range out.Rows {
		out.Rows[i][idx] = values[i]
	}
	return out, nil
}

// DesignMatrix captures the predictor columns, in matrix order, minus the
// excluded names.
func (m *ReturnMatrix) DesignMatrix(exclude ...string) (*DesignMatrix, error) {
	skip := make(map[string]struct{}, len(exclude)+1)
	skip[DateColumn] = struct{}{}
	for _, e := range exclude {
		skip[e] = struct{}{}
	}

	var instruments []string
	var indices []int
	for i, c := range m.Columns {
		if _, ok := skip[c]; ok {
			continue
		}
		instruments = append(instruments, c)
		indices = append(indices, i)
	}

	if len(instruments) == 0 {
		return nil, ErrNoCandidates
	}
	if m.NumRows() == 0 {
		return nil, fmt.Errorf("%w: return matrix has no rows", ErrInputShape)
	}

	x := mat.NewDense(m.NumRows(), len(instruments), nil)
	for r, row := range m.Rows {
		for c, idx := range indices {
			x.Set(r, c, row[idx])
		}
	}

	return &DesignMatrix{Instruments: instruments, X: x}, nil
}

// DesignMatrix pairs the predictor matrix with its column identifiers.
// Coefficient i of any fit on X belongs to Instruments[i].
type DesignMatrix struct {
	Instruments []string
	X           *mat.Dense
}

// Dims returns rows (dates) and columns (instruments).
func (d *DesignMatrix) Dims() (int, int) {
	return d.X.Dims()
}
