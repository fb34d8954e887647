package pipeline

import (
	"time"

	"github.com/san-kum/itersolve/internal/solver"
)

// Timed wraps a cursor and measures the wall-clock duration of the
// inner Advance calls only. Caller-side reporting and I/O are outside
// the measurement.
type Timed struct {
	inner   solver.Cursor
	elapsed time.Duration
	last    time.Duration
	steps   int
}

// NewTimed wraps inner with timing instrumentation.
func NewTimed(inner solver.Cursor) *Timed {
	return &Timed{inner: inner}
}

func (t *Timed) Advance() {
	start := time.Now()
	t.inner.Advance()
	t.last = time.Since(start)
	t.elapsed += t.last
	t.steps++
}

func (t *Timed) View() *solver.State { return t.inner.View() }

// Elapsed returns the accumulated advance time.
func (t *Timed) Elapsed() time.Duration { return t.elapsed }

// Last returns the duration of the most recent advance.
func (t *Timed) Last() time.Duration { return t.last }

// Mean returns the average advance duration, or zero before the first
// step.
func (t *Timed) Mean() time.Duration {
	if t.steps == 0 {
		return 0
	}
	return t.elapsed / time.Duration(t.steps)
}
