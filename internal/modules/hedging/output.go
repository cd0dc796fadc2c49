package hedging

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aristath/hedger/internal/domain"
)

// WritePositions writes one "<instrument> <quantity>" line per position.
func WritePositions(w io.Writer, positions []domain.HedgePosition) error {
	bw := bufio.NewWriter(w)
	for _, p := range positions {
		if _, err := fmt.Fprintln(bw, p.String()); err != nil {
			return fmt.Errorf("failed to write position %s: %w", p.Instrument, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush positions: %w", err)
	}
	return nil
}
