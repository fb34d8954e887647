package solver

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// referenceSystem is a 3x3 positive-definite system with exact
// solution x = [-2, 1, 0]. Built as MᵀM for an integer M with
// determinant 1, so it is well conditioned and the trajectory below is
// stable to verify.
func referenceSystem(t *testing.T) *LinearSystem {
	t.Helper()
	a := mat.NewDense(3, 3, []float64{
		1, 2, -1,
		2, 5, -2,
		-1, -2, 2,
	})
	sys, err := NewLinearSystem(a, []float64{0, 1, 0})
	if err != nil {
		t.Fatalf("NewLinearSystem() error: %v", err)
	}
	return sys
}

func closeTo(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func vecCloseTo(got, want []float64, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !closeTo(got[i], want[i], tol) {
			return false
		}
	}
	return true
}

func TestConjugateGradientTrajectory(t *testing.T) {
	cg, err := NewConjugateGradient(referenceSystem(t), nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	st := cg.View()
	if !closeTo(st.RS, 1.0, 0) {
		t.Fatalf("initial r·r = %g, want 1", st.RS)
	}

	// Hand-verified first two steps of the recurrence.
	st = Step(cg)
	if !closeTo(st.Alpha, 0.2, 1e-14) {
		t.Errorf("step 1 alpha = %g, want 0.2", st.Alpha)
	}
	if !closeTo(st.RS, 0.32, 1e-14) {
		t.Errorf("step 1 r·r = %g, want 0.32", st.RS)
	}
	if !vecCloseTo(st.X, []float64{0, 0.2, 0}, 1e-14) {
		t.Errorf("step 1 x = %v, want [0, 0.2, 0]", st.X)
	}
	if !closeTo(st.RSPrev, 1.0, 0) {
		t.Errorf("step 1 rsPrev = %g, want 1", st.RSPrev)
	}

	st = Step(cg)
	if !closeTo(st.Alpha, 10.0/9, 1e-12) {
		t.Errorf("step 2 alpha = %g, want 10/9", st.Alpha)
	}
	if !closeTo(st.RS, 8.0/81, 1e-12) {
		t.Errorf("step 2 r·r = %g, want 8/81", st.RS)
	}
	if !vecCloseTo(st.X, []float64{-4.0 / 9, 5.0 / 9, 4.0 / 9}, 1e-12) {
		t.Errorf("step 2 x = %v, want [-4/9, 5/9, 4/9]", st.X)
	}

	// Dimension 3: the third step lands on the solution up to
	// rounding.
	st = Step(cg)
	if !vecCloseTo(st.X, []float64{-2, 1, 0}, 1e-9) {
		t.Errorf("step 3 x = %v, want [-2, 1, 0]", st.X)
	}
	if st.ResidualNorm() > 1e-10 {
		t.Errorf("step 3 residual norm = %g, want < 1e-10", st.ResidualNorm())
	}
}

func TestConjugateGradientMonotoneOnReference(t *testing.T) {
	cg, err := NewConjugateGradient(referenceSystem(t), nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	prev := cg.View().RS
	for i := 0; i < 3; i++ {
		st := Step(cg)
		if st.RS > prev {
			t.Errorf("step %d: r·r grew from %g to %g", st.Step, prev, st.RS)
		}
		prev = st.RS
	}
}

func TestConjugateGradientInitialGuess(t *testing.T) {
	sys := referenceSystem(t)

	cg, err := NewConjugateGradient(sys, []float64{-2, 1, 0})
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	st := cg.View()
	if !st.Converged {
		t.Error("seeding with the exact solution should converge immediately")
	}
	if st.RS != 0 {
		t.Errorf("r·r = %g, want exactly 0", st.RS)
	}
}

func TestConjugateGradientBadGuessLength(t *testing.T) {
	_, err := NewConjugateGradient(referenceSystem(t), []float64{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestConjugateGradientExactConvergenceFreezes(t *testing.T) {
	// With A = 2I and any b, the first step is exact: alpha = 1/2 and
	// r becomes the zero vector with no rounding.
	a := mat.NewDense(3, 3, []float64{2, 0, 0, 0, 2, 0, 0, 0, 2})
	sys, err := NewLinearSystem(a, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewLinearSystem() error: %v", err)
	}
	cg, err := NewConjugateGradient(sys, nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	st := Step(cg)
	if !st.Converged {
		t.Fatal("expected exact convergence after one step")
	}
	if st.RS != 0 {
		t.Errorf("r·r = %g, want exactly 0", st.RS)
	}
	if !vecCloseTo(st.X, []float64{0.5, 1, 1.5}, 0) {
		t.Errorf("x = %v, want [0.5, 1, 1.5]", st.X)
	}

	frozen := st.Clone()
	Step(cg)
	after := cg.View()
	if after.Step != frozen.Step {
		t.Error("advance after convergence should be a no-op")
	}
	if !vecCloseTo(after.X, frozen.X, 0) {
		t.Error("terminal state mutated by a further advance")
	}
}

func TestConjugateGradientBreakdown(t *testing.T) {
	// Indefinite system arranged so p·Ap = 0 on the first step.
	a := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	sys, err := NewLinearSystem(a, []float64{1, 0})
	if err != nil {
		t.Fatalf("NewLinearSystem() error: %v", err)
	}
	cg, err := NewConjugateGradient(sys, nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	cg.Advance()
	st := cg.View()
	if !st.Breakdown {
		t.Fatal("expected breakdown on p·Ap = 0")
	}
	if st.Step != 0 {
		t.Errorf("breakdown should not count as a completed step, got step %d", st.Step)
	}
	if st.RS != 1 {
		t.Errorf("residual should be untouched by a broken step, got %g", st.RS)
	}

	cg.Advance()
	if cg.View().Step != 0 {
		t.Error("advance after breakdown should be a no-op")
	}
}

func TestConjugateGradientViewSharesStorage(t *testing.T) {
	cg, err := NewConjugateGradient(referenceSystem(t), nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	before := cg.View()
	again := cg.View()
	if before != again {
		t.Error("View between advances should return the same reference")
	}

	cg.Advance()
	if cg.View() != before {
		t.Error("View should keep returning the cursor's shared state")
	}
}

func TestConjugateGradientResume(t *testing.T) {
	sys := referenceSystem(t)

	full, err := NewConjugateGradient(sys, nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}
	Step(full)
	snapshot := full.View().Clone()
	want := Step(full).Clone()

	resumed, err := NewConjugateGradientFrom(sys, snapshot)
	if err != nil {
		t.Fatalf("NewConjugateGradientFrom() error: %v", err)
	}
	got := Step(resumed)

	if got.Step != want.Step {
		t.Errorf("resumed step = %d, want %d", got.Step, want.Step)
	}
	if !vecCloseTo(got.X, want.X, 0) {
		t.Errorf("resumed x = %v, want %v", got.X, want.X)
	}
	if got.RS != want.RS {
		t.Errorf("resumed r·r = %g, want %g", got.RS, want.RS)
	}
}

func TestConjugateGradientResumeBadState(t *testing.T) {
	st := &State{X: []float64{1}, R: []float64{1}, P: []float64{1}}
	_, err := NewConjugateGradientFrom(referenceSystem(t), st)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestConjugateGradientPoisson(t *testing.T) {
	// 1-dimensional Poisson system, a standard benchmark: exact
	// convergence within n steps in exact arithmetic, near it in
	// floating point.
	n := 16
	data := make([]float64, n*n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 2
		if i > 0 {
			data[i*n+i-1] = -1
		}
		if i < n-1 {
			data[i*n+i+1] = -1
		}
		b[i] = 1
	}
	sys, err := NewLinearSystem(mat.NewDense(n, n, data), b)
	if err != nil {
		t.Fatalf("NewLinearSystem() error: %v", err)
	}
	cg, err := NewConjugateGradient(sys, nil)
	if err != nil {
		t.Fatalf("NewConjugateGradient() error: %v", err)
	}

	var st *State
	for i := 0; i < 2*n; i++ {
		st = Step(cg)
		if st.Terminal() || st.ResidualNorm() < 1e-12 {
			break
		}
	}
	if st.ResidualNorm() > 1e-10 {
		t.Fatalf("residual norm %g after %d steps", st.ResidualNorm(), st.Step)
	}

	// x_i = i(n-i)/2 with 1-based i is the exact solution.
	for i := 0; i < n; i++ {
		exact := float64((i+1)*(n-i)) / 2
		if !closeTo(st.X[i], exact, 1e-8) {
			t.Errorf("x[%d] = %g, want %g", i, st.X[i], exact)
		}
	}
}
