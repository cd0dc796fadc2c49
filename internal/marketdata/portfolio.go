package marketdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aristath/hedger/internal/domain"
)

// maxLineBytes bounds a single input line; thousands of P&L values fit easily.
const maxLineBytes = 16 << 20

// ParsePortfolioLine parses "<portfolio_id> <pnl_1> ... <pnl_n>".
func ParsePortfolioLine(line string) (*domain.PortfolioSeries, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty portfolio line", domain.ErrParse)
	}

	pnl := make([]float64, 0, len(tokens)-1)
	for i, tok := range tokens[1:] {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: P&L token %d (%q) is not a number", domain.ErrParse, i+1, tok)
		}
		pnl = append(pnl, v)
	}

	return &domain.PortfolioSeries{ID: tokens[0], PnL: pnl}, nil
}

// ReadPortfolio reads the first line of r and parses it.
func ReadPortfolio(r io.Reader) (*domain.PortfolioSeries, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read portfolio line: %w", err)
		}
		return nil, fmt.Errorf("%w: no portfolio line on input", domain.ErrParse)
	}

	return ParsePortfolioLine(scanner.Text())
}
