// Package hedging builds sparse Lasso hedges for a portfolio P&L series.
package hedging

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/hedger/internal/domain"
)

// DefaultAlpha is the penalty used when none is configured.
const DefaultAlpha = 0.1

// Result is the outcome of one hedge build.
type Result struct {
	Positions  []domain.HedgePosition
	Weights    []domain.HedgeWeight // nonzero coefficients, predictor order
	Intercept  float64
	Iterations int
	DualGap    float64
	Converged  bool
}

// Builder fits a Lasso regression of a portfolio's P&L on instrument returns
// and turns the surviving coefficients into integer hedge quantities.
type Builder struct {
	maxIter  int
	tol      float64
	positive bool
	log      zerolog.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithMaxIter sets the coordinate-descent pass limit.
func WithMaxIter(n int) Option {
	return func(b *Builder) { b.maxIter = n }
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(b *Builder) { b.tol = tol }
}

// WithPositive restricts coefficients to be non-negative.
func WithPositive(positive bool) Option {
	return func(b *Builder) { b.positive = positive }
}

// NewBuilder creates a hedge builder.
func NewBuilder(log zerolog.Logger, opts ...Option) *Builder {
	b := &Builder{
		maxIter: DefaultMaxIter,
		tol:     DefaultTol,
		log:     log.With().Str("component", "hedge_builder").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildHedge runs a default builder and returns only the positions.
func BuildHedge(returns *domain.ReturnMatrix, portfolioID string, pnl []float64, alpha float64) ([]domain.HedgePosition, error) {
	res, err := NewBuilder(zerolog.Nop()).Build(returns, portfolioID, pnl, alpha)
	if err != nil {
		return nil, err
	}
	return res.Positions, nil
}

// Build fits the hedge for one portfolio. The caller's return matrix is not
// modified. Every returned position has a nonzero quantity and names one of
// the matrix's instrument columns.
func (b *Builder) Build(returns *domain.ReturnMatrix, portfolioID string, pnl []float64, alpha float64) (*Result, error) {
	if err := b.validate(returns, portfolioID, pnl, alpha); err != nil {
		return nil, err
	}

	working, err := returns.WithColumn(portfolioID, pnl)
	if err != nil {
		return nil, fmt.Errorf("failed to append portfolio series: %w", err)
	}

	design, err := working.DesignMatrix(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to build design matrix: %w", err)
	}

	target, _ := working.Column(portfolioID)

	rows, cols := design.Dims()
	b.log.Debug().
		Str("portfolio", portfolioID).
		Int("rows", rows).
		Int("instruments", cols).
		Float64("alpha", alpha).
		Msg("Fitting lasso hedge")

	fit, err := Lasso(design.X, target, LassoConfig{
		Alpha:    alpha,
		MaxIter:  b.maxIter,
		Tol:      b.tol,
		Positive: b.positive,
	})
	if err != nil {
		return nil, fmt.Errorf("lasso fit failed: %w", err)
	}

	if !fit.Converged {
		b.log.Warn().
			Str("portfolio", portfolioID).
			Int("iterations", fit.Iterations).
			Float64("dual_gap", fit.DualGap).
			Msg("Lasso did not converge, coefficients may be unreliable")
	}

	res := &Result{
		Positions:  []domain.HedgePosition{},
		Intercept:  fit.Intercept,
		Iterations: fit.Iterations,
		DualGap:    fit.DualGap,
		Converged:  fit.Converged,
	}

	for i, coef := range fit.Coef {
		if coef == 0 {
			continue
		}
		res.Weights = append(res.Weights, domain.HedgeWeight{
			Instrument: design.Instruments[i],
			Weight:     coef,
		})
	}

	if len(res.Weights) == 0 {
		b.log.Debug().Str("portfolio", portfolioID).Msg("No instrument selected")
		return res, nil
	}

	positions, err := ToPositions(res.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to size hedge positions: %w", err)
	}
	res.Positions = positions

	b.log.Info().
		Str("portfolio", portfolioID).
		Int("selected", len(res.Weights)).
		Int("positions", len(res.Positions)).
		Int("iterations", fit.Iterations).
		Msg("Built hedge")

	return res, nil
}

func (b *Builder) validate(returns *domain.ReturnMatrix, portfolioID string, pnl []float64, alpha float64) error {
	if returns == nil {
		return fmt.Errorf("%w: return matrix is nil", domain.ErrInputShape)
	}
	if alpha < 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAlpha, alpha)
	}
	if portfolioID == "" {
		return fmt.Errorf("%w: empty portfolio id", domain.ErrColumnCollision)
	}
	if portfolioID == domain.DateColumn || returns.HasColumn(portfolioID) {
		return fmt.Errorf("%w: %q", domain.ErrColumnCollision, portfolioID)
	}
	if len(pnl) != returns.NumRows() {
		return fmt.Errorf("%w: %d P&L values for %d return rows", domain.ErrInputShape, len(pnl), returns.NumRows())
	}
	for i, v := range pnl {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: P&L value %d is not finite", domain.ErrInputShape, i)
		}
	}
	for r, row := range returns.Rows {
		if len(row) != len(returns.Columns) {
			return fmt.Errorf("%w: row %d has %d values, expected %d", domain.ErrInputShape, r, len(row), len(returns.Columns))
		}
		for c, name := range returns.Columns {
			if math.IsNaN(row[c]) || math.IsInf(row[c], 0) {
				return fmt.Errorf("%w: return for %s on row %d is not finite", domain.ErrInputShape, name, r)
			}
		}
	}
	return nil
}
