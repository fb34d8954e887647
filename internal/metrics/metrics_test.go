package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/itersolve/internal/solver"
)

func stateWithRS(step int, rs float64) *solver.State {
	return &solver.State{Step: step, RS: rs}
}

func TestResidualNormTracksLatest(t *testing.T) {
	m := NewResidualNorm()

	m.Observe(stateWithRS(1, 16.0))
	m.Observe(stateWithRS(2, 4.0))

	if got := m.Value(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected residual norm 2.0, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestConvergenceRateGeometric(t *testing.T) {
	m := NewConvergenceRate()

	// Norms 8, 4, 2, 1: exact halving each step.
	for i, rs := range []float64{64, 16, 4, 1} {
		m.Observe(stateWithRS(i+1, rs))
	}

	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected rate 0.5, got %f", got)
	}
}

func TestConvergenceRateSingleSample(t *testing.T) {
	m := NewConvergenceRate()
	m.Observe(stateWithRS(1, 4.0))

	if got := m.Value(); got != 1.0 {
		t.Errorf("expected neutral rate 1.0 with one sample, got %f", got)
	}
}

func TestStepCount(t *testing.T) {
	m := NewStepCount()
	for i := 0; i < 5; i++ {
		m.Observe(stateWithRS(i+1, 1.0))
	}
	if got := m.Value(); got != 5 {
		t.Errorf("expected 5 steps, got %f", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestResidualReduction(t *testing.T) {
	m := NewResidualReduction()
	m.Observe(stateWithRS(1, 100.0))
	m.Observe(stateWithRS(2, 1.0))

	if got := m.Value(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected reduction 0.1, got %f", got)
	}
}
