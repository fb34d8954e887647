package pipeline

import "github.com/san-kum/itersolve/internal/solver"

// Stride wraps a cursor so that each outer step runs n inner steps,
// surfacing only every nth underlying state. Inner exhaustion inside a
// window latches; the partial window is not surfaced.
type Stride struct {
	inner solver.Cursor
	n     int
	done  bool
}

// NewStride wraps inner with stride n. A stride below 1 is treated
// as 1.
func NewStride(inner solver.Cursor, n int) *Stride {
	if n < 1 {
		n = 1
	}
	return &Stride{inner: inner, n: n}
}

func (s *Stride) Advance() {
	if s.done {
		return
	}
	for i := 0; i < s.n; i++ {
		s.inner.Advance()
		if s.inner.View() == nil {
			s.done = true
			return
		}
	}
}

func (s *Stride) View() *solver.State {
	if s.done {
		return nil
	}
	return s.inner.View()
}
