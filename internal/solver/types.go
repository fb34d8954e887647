package solver

import "math"

// State is the observable state of an iterative solve. It is
// deliberately over-complete: every intermediate quantity of the most
// recent step is kept so that observers can inspect the iteration
// without recomputation and without touching the step function.
//
// A State returned by a cursor's View shares the cursor's internal
// storage. Observation must not mutate it; callers that need a
// snapshot across steps use Clone.
type State struct {
	// A and B reference the originating system so observers can
	// recompute the true residual independently.
	A *LinearSystem

	X []float64 // current solution estimate
	R []float64 // running residual, r ≈ b - A·x (drifts under floating point)
	P []float64 // current search direction

	RS     float64 // cached r·r for the current step
	RSPrev float64 // r·r from the previous step
	Alpha  float64 // most recent step length

	// AP is the most recent matrix-vector product A·p. Nil before the
	// first step.
	AP []float64

	Step int

	// Converged is set when rs reached exactly zero.
	Converged bool
	// Breakdown is set when p·Ap fell within the breakdown tolerance
	// of zero; the state is frozen from then on.
	Breakdown bool
}

// ResidualNorm returns ||r||_2 from the cached r·r.
func (s *State) ResidualNorm() float64 { return math.Sqrt(s.RS) }

// Terminal reports whether the iteration can make no further progress.
func (s *State) Terminal() bool { return s.Converged || s.Breakdown }

// Clone returns a deep copy decoupled from the cursor's storage.
func (s *State) Clone() *State {
	c := *s
	c.X = append([]float64(nil), s.X...)
	c.R = append([]float64(nil), s.R...)
	c.P = append([]float64(nil), s.P...)
	if s.AP != nil {
		c.AP = append([]float64(nil), s.AP...)
	}
	return &c
}

// Cursor is the contract every iterative method and every wrapper
// implements. Advance performs exactly one unit of work, mutating
// internal state; two calls are two distinct steps. View returns a
// read-only reference to the current state without copying, or nil
// once the sequence is exhausted; calling it repeatedly between
// advances yields the same observable state.
type Cursor interface {
	Advance()
	View() *State
}

// Step advances a cursor and returns the post-step view. It is the
// only operation a driver loop needs.
func Step(c Cursor) *State {
	c.Advance()
	return c.View()
}
