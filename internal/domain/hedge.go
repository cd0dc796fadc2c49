package domain

import "fmt"

// PortfolioSeries is a portfolio's realized P&L, one value per return row.
type PortfolioSeries struct {
	ID  string
	PnL []float64
}

// HedgeWeight is a fitted regression coefficient for one instrument.
type HedgeWeight struct {
	Instrument string  `json:"instrument"`
	Weight     float64 `json:"weight"`
}

// HedgePosition is a signed integer quantity to trade in one instrument.
// Positive is long, negative is short.
type HedgePosition struct {
	Instrument string `json:"instrument"`
	Quantity   int64  `json:"quantity"`
}

// String renders the position as "<instrument> <quantity>".
func (p HedgePosition) String() string {
	return fmt.Sprintf("%s %d", p.Instrument, p.Quantity)
}

// InstrumentMetadata holds descriptive fields for an instrument, keyed by the
// metadata file's header names.
type InstrumentMetadata struct {
	ID     string
	Fields map[string]string
}
