// Package marketdata loads reference returns, instrument metadata and
// portfolio P&L input.
package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aristath/hedger/internal/domain"
)

// DefaultReturnsScale converts percentage-point returns to fractions.
const DefaultReturnsScale = 100.0

// LoadReturnsFile opens path and reads it with ReadReturns.
func LoadReturnsFile(path string, scale float64) (*domain.ReturnMatrix, error) {
	// #nosec G304 -- file path is operator provided via config or CLI flags.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open returns file: %w", err)
	}
	defer file.Close()

	m, err := ReadReturns(file, scale)
	if err != nil {
		return nil, fmt.Errorf("read returns file %s: %w", path, err)
	}
	return m, nil
}

// ReadReturns parses a returns CSV: a header with a Date column anywhere and
// one column per instrument, then one row per date. Every instrument value is
// divided by scale.
func ReadReturns(r io.Reader, scale float64) (*domain.ReturnMatrix, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("returns scale must be > 0, got %v", scale)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: returns file is empty", domain.ErrParse)
		}
		return nil, fmt.Errorf("%w: read csv header: %v", domain.ErrParse, err)
	}

	dateIdx := -1
	names := make([]string, len(header))
	columns := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		names[i] = h
		if h == domain.DateColumn {
			if dateIdx >= 0 {
				return nil, fmt.Errorf("%w: %w: header repeats the %s column", domain.ErrParse, domain.ErrColumnCollision, domain.DateColumn)
			}
			dateIdx = i
			continue
		}
		columns = append(columns, h)
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w: returns header has no %s column", domain.ErrParse, domain.DateColumn)
	}

	var dates []string
	var rows [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv record: %v", domain.ErrParse, err)
		}

		row := make([]float64, 0, len(columns))
		for i, cell := range record {
			if i == dateIdx {
				dates = append(dates, strings.TrimSpace(cell))
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %q is not a number", domain.ErrParse, line, names[i], cell)
			}
			row = append(row, v/scale)
		}
		rows = append(rows, row)
	}

	m, err := domain.NewReturnMatrix(dates, columns, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	return m, nil
}
