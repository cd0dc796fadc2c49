package domain

import "errors"

// Error taxonomy for a hedge run. Callers wrap these with context and match
// them with errors.Is.
var (
	// ErrInputShape reports a P&L series whose length or values do not fit the
	// return matrix.
	ErrInputShape = errors.New("input shape mismatch")

	// ErrNoCandidates reports a design matrix with zero predictor columns.
	ErrNoCandidates = errors.New("no candidate instruments")

	// ErrParse reports malformed CSV or interactive input.
	ErrParse = errors.New("parse error")

	// ErrColumnCollision reports a portfolio id that is already a column name.
	ErrColumnCollision = errors.New("portfolio id collides with an existing column")

	// ErrInvalidAlpha reports a negative or non-finite penalty weight.
	ErrInvalidAlpha = errors.New("invalid alpha")

	// ErrQuantityOverflow reports a hedge weight whose rounded quantity does not
	// fit in an int64.
	ErrQuantityOverflow = errors.New("hedge quantity overflows int64")
)
