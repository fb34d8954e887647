package pipeline

import "github.com/san-kum/itersolve/internal/solver"

// CheckpointStore persists observable states. The concrete JSON file
// store lives in internal/storage.
type CheckpointStore interface {
	SaveCheckpoint(st *solver.State) error
}

// Checkpointed wraps a cursor and writes the observable state to
// durable storage after every advance, so a crash between steps loses
// at most one step of progress. Save failures do not interrupt
// iteration; the last error is kept and exposed via Err, preserving
// the no-throw contract of Advance.
type Checkpointed struct {
	inner solver.Cursor
	store CheckpointStore
	err   error
}

// NewCheckpointed wraps inner with the given store.
func NewCheckpointed(inner solver.Cursor, store CheckpointStore) *Checkpointed {
	return &Checkpointed{inner: inner, store: store}
}

func (c *Checkpointed) Advance() {
	c.inner.Advance()
	if st := c.inner.View(); st != nil {
		if err := c.store.SaveCheckpoint(st); err != nil {
			c.err = err
		}
	}
}

func (c *Checkpointed) View() *solver.State { return c.inner.View() }

// Err returns the most recent checkpoint write error, if any.
func (c *Checkpointed) Err() error { return c.err }
