package driver

import (
	"context"
	"fmt"

	"github.com/san-kum/itersolve/internal/solver"
)

// Metric accumulates a scalar over the observed iteration states.
type Metric interface {
	Name() string
	Observe(st *solver.State)
	Value() float64
	Reset()
}

// Observer is notified after every surfaced step.
type Observer interface {
	OnStep(st *solver.State)
}

// Config bounds a driver run. MaxSteps guards against pipelines with
// no stopping wrapper; zero means DefaultMaxSteps.
type Config struct {
	MaxSteps int
}

// DefaultMaxSteps bounds runs whose pipeline never exhausts.
const DefaultMaxSteps = 10000

// Result collects what a run produced.
type Result struct {
	// Residuals holds r·r per surfaced step.
	Residuals []float64
	// X is a snapshot of the final solution estimate.
	X []float64
	// Steps counts surfaced steps (inner methods may have taken more
	// under a stride wrapper).
	Steps int
	// Breakdown reports whether the final state flagged a numerical
	// breakdown.
	Breakdown bool
	Metrics   map[string]float64
}

// Driver owns the pull loop over a cursor pipeline. The cursor decides
// the trajectory; the driver only observes and bounds it.
type Driver struct {
	cursor    solver.Cursor
	metrics   []Metric
	observers []Observer
}

// New builds a driver around a cursor (typically the outermost
// pipeline wrapper).
func New(cursor solver.Cursor) *Driver {
	return &Driver{cursor: cursor}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run steps the cursor until exhaustion, the step bound, or context
// cancellation. A run ending in numerical breakdown returns
// solver.ErrNumericalBreakdown alongside the partial result.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	var last *solver.State

	for result.Steps < maxSteps {
		select {
		case <-ctx.Done():
			d.finish(result, last)
			return result, ctx.Err()
		default:
		}

		st := solver.Step(d.cursor)
		if st == nil {
			break
		}
		last = st
		result.Steps++
		result.Residuals = append(result.Residuals, st.RS)

		for _, m := range d.metrics {
			m.Observe(st)
		}
		for _, o := range d.observers {
			o.OnStep(st)
		}

		if st.Breakdown {
			d.finish(result, last)
			result.Breakdown = true
			return result, fmt.Errorf("step %d: %w", st.Step, solver.ErrNumericalBreakdown)
		}
	}

	d.finish(result, last)
	return result, nil
}

func (d *Driver) finish(result *Result, last *solver.State) {
	if last == nil {
		// Nothing surfaced; fall back to the live view if the cursor
		// still has one.
		last = d.cursor.View()
	}
	if last != nil {
		result.X = append([]float64(nil), last.X...)
	}
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps the cursor until the callback returns false or
// the cursor is exhausted. Used by live views that own their render
// loop.
func (d *Driver) RunWithCallback(ctx context.Context, cfg Config, callback func(*solver.State) bool) error {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		st := solver.Step(d.cursor)
		if st == nil {
			return nil
		}
		if !callback(st) {
			return nil
		}
	}
	return nil
}
