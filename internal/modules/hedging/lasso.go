package hedging

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Solver defaults
const (
	DefaultMaxIter = 10000
	DefaultTol     = 1e-4
)

// LassoConfig configures the coordinate-descent fit.
type LassoConfig struct {
	Alpha    float64 // L1 penalty weight, >= 0
	MaxIter  int     // Full passes over the predictors
	Tol      float64 // Relative update / duality-gap tolerance
	Positive bool    // Force coefficients to be >= 0
}

// LassoFit is the outcome of a Lasso fit. Coef[i] belongs to column i of X.
type LassoFit struct {
	Coef       []float64
	Intercept  float64
	Iterations int
	DualGap    float64
	Converged  bool
}

// Lasso minimizes
//
//	(1/(2n)) * ||y - Xw - b||^2 + alpha * ||w||_1
//
// by cyclic coordinate descent with soft-thresholding. The intercept b is
// recovered from the column and target means. Convergence is checked with the
// duality gap once the largest coefficient update drops below Tol relative to
// the largest coefficient. Hitting MaxIter is not an error; Converged reports it.
func Lasso(x mat.Matrix, y []float64, cfg LassoConfig) (*LassoFit, error) {
	n, p := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows, target has %d", n, len(y))
	}
	if p == 0 {
		return nil, fmt.Errorf("design matrix has no columns")
	}
	if cfg.Alpha < 0 || math.IsNaN(cfg.Alpha) || math.IsInf(cfg.Alpha, 0) {
		return nil, fmt.Errorf("alpha must be finite and >= 0, got %v", cfg.Alpha)
	}
	if cfg.MaxIter < 1 {
		return nil, fmt.Errorf("max iterations must be >= 1, got %d", cfg.MaxIter)
	}
	if cfg.Tol <= 0 {
		return nil, fmt.Errorf("tolerance must be > 0, got %v", cfg.Tol)
	}

	// Centered columns and target
	cols := make([][]float64, p)
	means := make([]float64, p)
	normSq := make([]float64, p)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		means[j] = stat.Mean(col, nil)
		floats.AddConst(-means[j], col)
		cols[j] = col
		normSq[j] = floats.Dot(col, col)
	}

	yMean := stat.Mean(y, nil)
	yc := make([]float64, n)
	copy(yc, y)
	floats.AddConst(-yMean, yc)

	fit := &LassoFit{Coef: make([]float64, p)}
	yNormSq := floats.Dot(yc, yc)
	if yNormSq == 0 {
		fit.Intercept = yMean
		fit.Converged = true
		return fit, nil
	}

	w := fit.Coef
	penalty := cfg.Alpha * float64(n)
	tol := cfg.Tol * yNormSq

	// residual = yc - Xc w, with w = 0 initially
	residual := make([]float64, n)
	copy(residual, yc)

	for iter := 1; iter <= cfg.MaxIter; iter++ {
		fit.Iterations = iter
		var maxUpdate, maxWeight float64

		for j := 0; j < p; j++ {
			if normSq[j] == 0 {
				continue
			}
			old := w[j]
			if old != 0 {
				floats.AddScaled(residual, old, cols[j])
			}

			rho := floats.Dot(cols[j], residual)
			w[j] = softThreshold(rho, penalty, cfg.Positive) / normSq[j]

			if w[j] != 0 {
				floats.AddScaled(residual, -w[j], cols[j])
			}

			maxUpdate = math.Max(maxUpdate, math.Abs(w[j]-old))
			maxWeight = math.Max(maxWeight, math.Abs(w[j]))
		}

		if maxWeight == 0 || maxUpdate/maxWeight < cfg.Tol || iter == cfg.MaxIter {
			fit.DualGap = dualityGap(cols, yc, residual, w, penalty, cfg.Positive)
			if fit.DualGap < tol {
				fit.Converged = true
				break
			}
		}
	}

	fit.Intercept = yMean - floats.Dot(means, w)
	return fit, nil
}

// softThreshold is sign(z) * max(|z| - gamma, 0). With positive set, negative
// z maps to zero.
func softThreshold(z, gamma float64, positive bool) float64 {
	if positive && z < 0 {
		return 0
	}
	switch {
	case z > gamma:
		return z - gamma
	case z < -gamma:
		return z + gamma
	default:
		return 0
	}
}

// dualityGap evaluates the Lasso primal-dual gap for the current residual,
// scaled by n like the objective used in the coordinate updates. With no
// penalty it reduces to |r·Xw|, which vanishes at the least-squares optimum.
func dualityGap(cols [][]float64, y, residual, w []float64, penalty float64, positive bool) float64 {
	rNormSq := floats.Dot(residual, residual)
	if penalty == 0 {
		return math.Abs(rNormSq - floats.Dot(residual, y))
	}

	var dualNorm float64
	for j := range cols {
		xtr := floats.Dot(cols[j], residual)
		if positive {
			dualNorm = math.Max(dualNorm, xtr)
		} else {
			dualNorm = math.Max(dualNorm, math.Abs(xtr))
		}
	}

	var gap, scale float64
	if dualNorm > penalty {
		scale = penalty / dualNorm
		gap = 0.5 * (rNormSq + rNormSq*scale*scale)
	} else {
		scale = 1
		gap = rNormSq
	}

	l1 := 0.0
	for _, v := range w {
		l1 += math.Abs(v)
	}
	gap += penalty*l1 - scale*floats.Dot(residual, y)
	return gap
}
