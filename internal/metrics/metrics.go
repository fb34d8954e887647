package metrics

import (
	"math"

	"github.com/san-kum/itersolve/internal/solver"
)

// ResidualNorm tracks the residual 2-norm of the most recent state.
type ResidualNorm struct {
	name    string
	current float64
	samples int
}

func NewResidualNorm() *ResidualNorm {
	return &ResidualNorm{name: "residual_norm"}
}

func (m *ResidualNorm) Name() string { return m.name }

func (m *ResidualNorm) Observe(st *solver.State) {
	m.current = st.ResidualNorm()
	m.samples++
}

func (m *ResidualNorm) Value() float64 { return m.current }

func (m *ResidualNorm) Reset() {
	m.current = 0
	m.samples = 0
}

// ConvergenceRate estimates the per-step geometric contraction of the
// residual norm. A value below 1 means the iteration is converging;
// the smaller, the faster.
type ConvergenceRate struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewConvergenceRate() *ConvergenceRate {
	return &ConvergenceRate{name: "convergence_rate"}
}

func (m *ConvergenceRate) Name() string { return m.name }

func (m *ConvergenceRate) Observe(st *solver.State) {
	norm := st.ResidualNorm()
	if m.samples == 0 {
		m.first = norm
	}
	m.last = norm
	m.samples++
}

func (m *ConvergenceRate) Value() float64 {
	if m.samples < 2 || m.first == 0 {
		return 1.0
	}
	return math.Pow(m.last/m.first, 1/float64(m.samples-1))
}

func (m *ConvergenceRate) Reset() {
	m.first = 0
	m.last = 0
	m.samples = 0
}

// StepCount counts observed steps.
type StepCount struct {
	name  string
	count int
}

func NewStepCount() *StepCount {
	return &StepCount{name: "steps"}
}

func (m *StepCount) Name() string { return m.name }

func (m *StepCount) Observe(st *solver.State) { m.count++ }

func (m *StepCount) Value() float64 { return float64(m.count) }

func (m *StepCount) Reset() { m.count = 0 }

// ResidualReduction reports how far the residual norm has dropped
// relative to the first observed state, as last/first.
type ResidualReduction struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewResidualReduction() *ResidualReduction {
	return &ResidualReduction{name: "residual_reduction"}
}

func (m *ResidualReduction) Name() string { return m.name }

func (m *ResidualReduction) Observe(st *solver.State) {
	norm := st.ResidualNorm()
	if m.samples == 0 {
		m.first = norm
	}
	m.last = norm
	m.samples++
}

func (m *ResidualReduction) Value() float64 {
	if m.samples == 0 || m.first == 0 {
		return 1.0
	}
	return m.last / m.first
}

func (m *ResidualReduction) Reset() {
	m.first = 0
	m.last = 0
	m.samples = 0
}
