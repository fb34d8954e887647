package solver

import "errors"

// Domain errors for solver construction and iteration.
var (
	// ErrDimensionMismatch indicates a non-square matrix or a
	// right-hand side whose length disagrees with the matrix dimension.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrNumericalBreakdown indicates a near-zero direction curvature
	// p·Ap outside the exact-convergence case.
	ErrNumericalBreakdown = errors.New("solver: numerical breakdown")
)
