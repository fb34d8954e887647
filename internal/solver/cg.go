package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultBreakdownTol is the default threshold under which |p·Ap| is
// treated as a numerical breakdown rather than divided by.
const DefaultBreakdownTol = 1e-300

// ConjugateGradient iterates the conjugate gradient recurrence for a
// positive-definite linear system. It never terminates on its own: in
// exact arithmetic the method reaches the solution within Dim steps,
// but that bound is not enforced here. Stopping is layered on by a
// wrapper or by the driver.
type ConjugateGradient struct {
	sys          *LinearSystem
	st           State
	breakdownTol float64
}

// NewConjugateGradient seeds a cursor from the system. x0 is an
// optional initial guess; nil means the zero vector, which makes the
// initial residual equal to b.
func NewConjugateGradient(sys *LinearSystem, x0 []float64) (*ConjugateGradient, error) {
	n := sys.Dim()
	if x0 != nil && len(x0) != n {
		return nil, fmt.Errorf("%w: length-%d initial guess for a %d-dimensional system", ErrDimensionMismatch, len(x0), n)
	}

	cg := &ConjugateGradient{sys: sys, breakdownTol: DefaultBreakdownTol}
	st := &cg.st
	st.A = sys
	st.X = make([]float64, n)
	st.R = make([]float64, n)
	if x0 != nil {
		copy(st.X, x0)
		sys.Residual(st.R, st.X)
	} else {
		copy(st.R, sys.B())
	}
	st.P = append([]float64(nil), st.R...)
	st.RS = floats.Dot(st.R, st.R)
	if st.RS == 0 {
		st.Converged = true
	}
	return cg, nil
}

// NewConjugateGradientFrom rebuilds a cursor around a previously
// observed state, e.g. one loaded from a checkpoint. The state is
// deep-copied; iteration resumes exactly where it left off.
func NewConjugateGradientFrom(sys *LinearSystem, st *State) (*ConjugateGradient, error) {
	n := sys.Dim()
	if len(st.X) != n || len(st.R) != n || len(st.P) != n {
		return nil, fmt.Errorf("%w: state vectors do not match a %d-dimensional system", ErrDimensionMismatch, n)
	}
	cg := &ConjugateGradient{sys: sys, breakdownTol: DefaultBreakdownTol}
	cg.st = *st.Clone()
	cg.st.A = sys
	return cg, nil
}

// SetBreakdownTol overrides the breakdown detection threshold.
func (cg *ConjugateGradient) SetBreakdownTol(tol float64) { cg.breakdownTol = tol }

// Advance performs one conjugate gradient step in place. The order of
// operations matters: ap and rs are cached and reused, never
// recomputed.
//
// A terminal state (exact convergence or breakdown) freezes the
// cursor; further advances are no-ops rather than divisions by zero.
func (cg *ConjugateGradient) Advance() {
	st := &cg.st
	if st.Terminal() {
		return
	}

	n := len(st.X)
	ap := make([]float64, n)
	cg.sys.Apply(ap, st.P)

	den := floats.Dot(st.P, ap)
	if math.Abs(den) <= cg.breakdownTol {
		st.AP = ap
		st.Breakdown = true
		return
	}

	alpha := st.RS / den
	floats.AddScaled(st.X, alpha, st.P)
	floats.AddScaled(st.R, -alpha, ap)

	st.RSPrev = st.RS
	st.RS = floats.Dot(st.R, st.R)

	if st.RS == 0 {
		// Exact convergence; the direction update is undefined and
		// unnecessary.
		st.Converged = true
	} else {
		floats.AddScaledTo(st.P, st.R, st.RS/st.RSPrev, st.P)
	}

	st.Alpha = alpha
	st.AP = ap
	st.Step++
}

// View returns the live state. It is never nil: terminal conditions
// are reported through the state's flags, and the pipeline wrappers
// translate them into exhaustion where callers want an end-of-sequence
// signal.
func (cg *ConjugateGradient) View() *State { return &cg.st }

// System returns the linear system the cursor iterates on.
func (cg *ConjugateGradient) System() *LinearSystem { return cg.sys }
