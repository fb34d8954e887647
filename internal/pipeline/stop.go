package pipeline

import "github.com/san-kum/itersolve/internal/solver"

// Predicate decides, on a post-step state, whether iteration is done.
type Predicate func(*solver.State) bool

// ResidualBelow stops once the residual 2-norm drops under tol.
func ResidualBelow(tol float64) Predicate {
	return func(st *solver.State) bool { return st.ResidualNorm() < tol }
}

// MaxSteps stops once the underlying method has taken n steps.
func MaxSteps(n int) Predicate {
	return func(st *solver.State) bool { return st.Step >= n }
}

// Terminal stops on exact convergence or numerical breakdown.
func Terminal() Predicate {
	return func(st *solver.State) bool { return st.Terminal() }
}

// Any combines predicates; iteration stops when any of them holds.
func Any(preds ...Predicate) Predicate {
	return func(st *solver.State) bool {
		for _, p := range preds {
			if p(st) {
				return true
			}
		}
		return false
	}
}

// Stop wraps a cursor with a stopping condition. View returns nil as
// soon as the predicate holds on a post-step state, the state turns
// terminal, or the inner cursor is exhausted; once stopped the wrapper
// stays stopped and Advance no longer forwards. The state the wrapper
// latched on is kept reachable through Final.
type Stop struct {
	inner   solver.Cursor
	pred    Predicate
	stopped bool
	final   *solver.State
}

// NewStop wraps inner with the given stopping predicate.
func NewStop(inner solver.Cursor, pred Predicate) *Stop {
	return &Stop{inner: inner, pred: pred}
}

// Advance forwards one step unless already stopped, then evaluates the
// predicate on the result.
func (s *Stop) Advance() {
	if s.stopped {
		return
	}
	s.inner.Advance()
	st := s.inner.View()
	if st == nil {
		s.stopped = true
		return
	}
	if st.Terminal() || s.pred(st) {
		s.stopped = true
		s.final = st
	}
}

// View returns the inner view, or nil once stopped.
func (s *Stop) View() *solver.State {
	if s.stopped {
		return nil
	}
	return s.inner.View()
}

// Stopped reports whether the wrapper has latched.
func (s *Stop) Stopped() bool { return s.stopped }

// Final returns the state on which the stopping condition latched. It
// is nil while the wrapper is running and nil if the wrapper stopped
// because the inner cursor was exhausted.
func (s *Stop) Final() *solver.State { return s.final }
