package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/itersolve/internal/config"
	"github.com/san-kum/itersolve/internal/driver"
	"github.com/san-kum/itersolve/internal/pipeline"
	"github.com/san-kum/itersolve/internal/solver"
	"github.com/san-kum/itersolve/internal/storage"
)

// Experiment assembles a configured solve: method cursor, pipeline
// wrappers, driver, and metrics.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	driver   *driver.Driver
	stop     *pipeline.Stop
	timed    *pipeline.Timed
	resume   *solver.State
}

func New(cfg *config.Config) *Experiment {
	cfg.Normalize()
	return &Experiment{cfg: cfg, registry: NewRegistry()}
}

// Resume seeds the next Setup with a previously checkpointed state
// instead of the config's initial guess.
func (e *Experiment) Resume(st *solver.State) { e.resume = st }

// Setup builds the cursor pipeline. Wrapper order, innermost out:
// method, checkpoint, stride, stop, timing.
func (e *Experiment) Setup() error {
	sys, err := e.cfg.System()
	if err != nil {
		return err
	}

	var cursor solver.Cursor
	if e.resume != nil {
		if e.cfg.Method != "cg" {
			return fmt.Errorf("resume is only supported for cg, not %s", e.cfg.Method)
		}
		cg, err := solver.NewConjugateGradientFrom(sys, e.resume)
		if err != nil {
			return err
		}
		cg.SetBreakdownTol(e.cfg.BreakdownTol)
		cursor = cg
	} else {
		cursor, err = e.registry.GetMethod(e.cfg.Method, sys, e.cfg.InitialGuess)
		if err != nil {
			return err
		}
		if cg, ok := cursor.(*solver.ConjugateGradient); ok {
			cg.SetBreakdownTol(e.cfg.BreakdownTol)
		}
	}

	if e.cfg.Checkpoint != "" {
		cursor = pipeline.NewCheckpointed(cursor, storage.NewCheckpointStore(e.cfg.Checkpoint))
	}
	if e.cfg.Stride > 1 {
		cursor = pipeline.NewStride(cursor, e.cfg.Stride)
	}
	e.stop = pipeline.NewStop(cursor, pipeline.Any(
		pipeline.ResidualBelow(e.cfg.Tolerance),
		pipeline.MaxSteps(e.cfg.MaxSteps),
	))
	e.timed = pipeline.NewTimed(e.stop)

	e.driver = driver.New(e.timed)
	for _, m := range e.registry.DefaultMetrics() {
		e.driver.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*driver.Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	result, err := e.driver.Run(ctx, driver.Config{MaxSteps: e.cfg.MaxSteps})
	if result != nil {
		if e.timed != nil {
			result.Metrics["elapsed_seconds"] = e.timed.Elapsed().Seconds()
		}
		// The state the stopping condition latched on is not part of
		// the surfaced sequence; it is the answer.
		if final := e.stop.Final(); final != nil {
			result.X = append([]float64(nil), final.X...)
			result.Metrics["final_residual_norm"] = final.ResidualNorm()
			if final.Breakdown {
				result.Breakdown = true
			}
		}
	}
	return result, err
}

// Driver returns the underlying driver for adding observers.
func (e *Experiment) Driver() *driver.Driver {
	return e.driver
}
