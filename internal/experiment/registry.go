package experiment

import (
	"fmt"

	"github.com/san-kum/itersolve/internal/driver"
	"github.com/san-kum/itersolve/internal/metrics"
	"github.com/san-kum/itersolve/internal/solver"
)

// MethodFunc builds a fresh method cursor for a system and an optional
// initial guess.
type MethodFunc func(sys *solver.LinearSystem, x0 []float64) (solver.Cursor, error)

// Registry maps method names to constructors. "cg" is registered out
// of the box; alternative methods plug in the same way.
type Registry struct {
	methods map[string]MethodFunc
}

func NewRegistry() *Registry {
	r := &Registry{methods: make(map[string]MethodFunc)}

	r.methods["cg"] = func(sys *solver.LinearSystem, x0 []float64) (solver.Cursor, error) {
		return solver.NewConjugateGradient(sys, x0)
	}

	return r
}

// Register adds or replaces a method constructor.
func (r *Registry) Register(name string, fn MethodFunc) {
	r.methods[name] = fn
}

func (r *Registry) GetMethod(name string, sys *solver.LinearSystem, x0 []float64) (solver.Cursor, error) {
	fn, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn(sys, x0)
}

func (r *Registry) ListMethods() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	return names
}

func (r *Registry) DefaultMetrics() []driver.Metric {
	return []driver.Metric{
		metrics.NewResidualNorm(),
		metrics.NewConvergenceRate(),
		metrics.NewStepCount(),
	}
}
