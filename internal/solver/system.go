package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearSystem is an immutable description of the problem A·x = b.
//
// The matrix is expected to be positive-definite. That precondition is
// not verified here (it would cost more than the solve itself); a
// violating input shows up as non-convergence or breakdown during
// iteration, never as a construction error.
type LinearSystem struct {
	a *mat.Dense
	b []float64
}

// NewLinearSystem validates dimensions and wraps the problem. The
// matrix and vector are borrowed, not copied; callers must not mutate
// them while a cursor holds the system.
func NewLinearSystem(a *mat.Dense, b []float64) (*LinearSystem, error) {
	r, c := a.Dims()
	if r != c || r != len(b) {
		return nil, fmt.Errorf("%w: %dx%d matrix with length-%d right-hand side", ErrDimensionMismatch, r, c, len(b))
	}
	return &LinearSystem{a: a, b: b}, nil
}

// Dim returns the dimension of the system.
func (s *LinearSystem) Dim() int { return len(s.b) }

// A returns the system matrix.
func (s *LinearSystem) A() *mat.Dense { return s.a }

// B returns the right-hand side.
func (s *LinearSystem) B() []float64 { return s.b }

// Apply computes dst = A·src.
func (s *LinearSystem) Apply(dst, src []float64) {
	v := mat.NewVecDense(len(dst), dst)
	v.MulVec(s.a, mat.NewVecDense(len(src), src))
}

// Residual computes dst = b - A·x, the true residual at x.
func (s *LinearSystem) Residual(dst, x []float64) {
	s.Apply(dst, x)
	floats.AddScaledTo(dst, s.b, -1, dst)
}
