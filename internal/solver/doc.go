// Package solver provides the core primitives for iterative linear
// solvers.
//
// The package defines the streaming-state contract shared by every
// iterative method and the concrete conjugate gradient implementation:
//
//   - [LinearSystem]: immutable problem description (A, b)
//   - [State]: the fully observable per-iteration state
//   - [Cursor]: pull-based stateful iteration contract
//   - [ConjugateGradient]: conjugate gradient method as a [Cursor]
//
// A cursor advances one step at a time and exposes its internal state
// by reference, so callers can inspect every intermediate quantity
// without copies and without the method running to completion on its
// own. Termination is never part of a method; it is layered on with
// the wrappers in package pipeline.
//
// # Thread Safety
//
// Cursors are NOT thread-safe. A cursor and its wrapper chain belong
// to a single sequence of Step calls; concurrent observers must work
// on [State.Clone] snapshots taken between steps.
package solver
