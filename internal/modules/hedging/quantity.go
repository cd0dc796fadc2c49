package hedging

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/aristath/hedger/internal/domain"
)

var (
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
	minQuantity = decimal.NewFromInt(math.MinInt64)
)

// HedgeQuantity converts a fitted weight into the integer quantity that
// offsets it: the negated weight rounded half to even. A weight of 0.5 gives
// 0, 1.5 gives -2 and -2.5 gives 2. Quantities outside the int64 range fail
// with domain.ErrQuantityOverflow.
func HedgeQuantity(weight float64) (int64, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, fmt.Errorf("%w: weight %v", domain.ErrQuantityOverflow, weight)
	}
	qty := decimal.NewFromFloat(-weight).RoundBank(0)
	if qty.GreaterThan(maxQuantity) || qty.LessThan(minQuantity) {
		return 0, fmt.Errorf("%w: weight %g", domain.ErrQuantityOverflow, weight)
	}
	return qty.IntPart(), nil
}

// ToPositions rounds weights into positions, dropping zero quantities and
// keeping the input order.
func ToPositions(weights []domain.HedgeWeight) ([]domain.HedgePosition, error) {
	positions := make([]domain.HedgePosition, 0, len(weights))
	for _, w := range weights {
		qty, err := HedgeQuantity(w.Weight)
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", w.Instrument, err)
		}
		if qty == 0 {
			continue
		}
		positions = append(positions, domain.HedgePosition{
			Instrument: w.Instrument,
			Quantity:   qty,
		})
	}
	return positions, nil
}
