// Package pipeline provides composable wrappers around solver cursors.
//
// Each wrapper owns the cursor it wraps and itself implements
// [solver.Cursor], so wrappers nest freely:
//
//	cur, _ := solver.NewConjugateGradient(sys, nil)
//	c := pipeline.NewTimed(
//	    pipeline.NewStop(
//	        pipeline.NewStride(cur, 10),
//	        pipeline.ResidualBelow(1e-8),
//	    ),
//	)
//
// Wrappers observe and gate the underlying sequence; they never alter
// the numerical trajectory of the wrapped method.
package pipeline
