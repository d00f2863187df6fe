package opt

import (
	"errors"
	"math"
	"testing"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func box(dim int, lo, hi float64) Bounds {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	initial := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lo
		upper[i] = hi
		initial[i] = 0.5 * (lo + hi)
	}
	return Bounds{Lower: lower, Upper: upper, Initial: initial}
}

func TestOptimizeUnsupportedAlgorithm(t *testing.T) {
	evals := 0
	counted := func(x []float64) float64 {
		evals++
		return sphere(x)
	}

	_, err := Optimize(counted, box(2, -5, 5), AlgorithmID("simulated-annealing"), Options{MaxEvals: 100, RelTol: 1e-3})
	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("Expected ErrUnsupportedAlgorithm, got %v", err)
	}
	if evals != 0 {
		t.Errorf("Expected zero evaluations before dispatch failure, got %d", evals)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, valid := range []string{"global-deterministic", "global-stochastic", "local"} {
		if _, err := ParseAlgorithm(valid); err != nil {
			t.Errorf("ParseAlgorithm(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseAlgorithm("gradient-descent"); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("Expected ErrUnsupportedAlgorithm for unknown name, got %v", err)
	}
}

func TestOptimizeRejectsBadOptions(t *testing.T) {
	cases := []Options{
		{MaxEvals: 0, RelTol: 1e-3},
		{MaxEvals: -5, RelTol: 1e-3},
		{MaxEvals: 100, RelTol: 0},
		{MaxEvals: 100, RelTol: -1},
	}
	for _, o := range cases {
		if _, err := Optimize(sphere, box(2, -1, 1), GlobalDeterministic, o); err == nil {
			t.Errorf("Expected error for options %+v", o)
		}
	}
}

func TestOptimizeRejectsBadBounds(t *testing.T) {
	b := Bounds{Lower: []float64{0, 0}, Upper: []float64{1}}
	if _, err := Optimize(sphere, b, GlobalDeterministic, Options{MaxEvals: 10, RelTol: 1e-3}); err == nil {
		t.Error("Expected error for mismatched bounds")
	}

	b = Bounds{Lower: []float64{2}, Upper: []float64{1}}
	if _, err := Optimize(sphere, b, GlobalDeterministic, Options{MaxEvals: 10, RelTol: 1e-3}); err == nil {
		t.Error("Expected error for inverted bounds")
	}

	// An infinite box cannot be normalized into the unit cube.
	b = Bounds{Lower: []float64{0}, Upper: []float64{math.Inf(1)}}
	if _, err := Optimize(sphere, b, GlobalDeterministic, Options{MaxEvals: 10, RelTol: 1e-3}); err == nil {
		t.Error("Expected error for an infinite bound")
	}

	b = Bounds{Lower: []float64{0}, Upper: []float64{1}, Initial: []float64{math.NaN()}}
	if _, err := Optimize(sphere, b, Local, Options{MaxEvals: 10, RelTol: 1e-3}); err == nil {
		t.Error("Expected error for a non-finite initial point")
	}
}

func TestOptimizeReportsExactEvaluationCount(t *testing.T) {
	evals := 0
	counted := func(x []float64) float64 {
		evals++
		return sphere(x)
	}

	res, err := Optimize(counted, box(2, -5, 5), GlobalDeterministic, Options{MaxEvals: 60, RelTol: 1e-9})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Evaluations != evals {
		t.Errorf("Reported %d evaluations, objective saw %d", res.Evaluations, evals)
	}
	// The budget is a soft cap: a batch in flight may finish, but the count
	// must never be under-reported.
	if evals < 60 && res.Reason == EvalBudgetExhausted {
		t.Errorf("Budget stop reported after only %d of 60 evaluations", evals)
	}
}

func TestOptimizeConvergedImpliesLastTwoWithinTol(t *testing.T) {
	relTol := 1e-6
	var history []float64
	recorded := func(x []float64) float64 {
		f := sphere(x)
		history = append(history, f)
		return f
	}

	res, err := Optimize(recorded, box(2, -2, 2), Local, Options{MaxEvals: 2000, RelTol: relTol})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Reason != Converged {
		t.Fatalf("Expected convergence on a smooth quadratic, got %v", res.Reason)
	}
	if len(history) < 2 {
		t.Fatalf("Expected at least two evaluations, got %d", len(history))
	}
	prev, last := history[len(history)-2], history[len(history)-1]
	scale := math.Max(1, math.Abs(prev))
	if math.Abs(last-prev) >= relTol*scale {
		t.Errorf("Converged but last two evaluations differ by %g (tol %g)", math.Abs(last-prev), relTol*scale)
	}
}

func TestOptimizeSanitizesNaN(t *testing.T) {
	// Objective is NaN on half the box; the search must survive and find
	// the valid region.
	f := func(x []float64) float64 {
		if x[0] < 0 {
			return math.NaN()
		}
		return sphere(x)
	}

	res, err := Optimize(f, box(2, -5, 5), GlobalDeterministic, Options{MaxEvals: 200, RelTol: 1e-9})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Reason == AlgorithmFailure {
		t.Fatalf("Search failed despite a reachable valid region: %+v", res)
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		t.Errorf("Best objective is non-finite: %v", res.F)
	}
	if res.X[0] < 0 {
		t.Errorf("Best candidate %v lies in the invalid region", res.X)
	}
}

func TestOptimizeShiftingObjectiveIsNotConverged(t *testing.T) {
	// The value at a fixed point changes between calls by more than the
	// tolerance, so no stagnation stop can be confirmed. With most of the
	// budget unused, the run must be reported as a failure, not as a
	// budget stop and not as converged.
	calls := 0
	f := func(x []float64) float64 {
		calls++
		return 1.0 + 0.01*float64(calls%2)
	}

	res, err := Optimize(f, box(2, 0, 1), GlobalDeterministic, Options{MaxEvals: 100000, RelTol: 1e-6})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Evaluations >= 100000 {
		t.Fatalf("Expected an early stop, consumed %d evaluations", res.Evaluations)
	}
	if res.Reason != AlgorithmFailure {
		t.Errorf("Expected AlgorithmFailure for an irreproducible objective, got %v", res.Reason)
	}
}

func TestOptimizeAllInvalidIsAlgorithmFailure(t *testing.T) {
	f := func(x []float64) float64 { return math.NaN() }

	res, err := Optimize(f, box(2, -1, 1), GlobalDeterministic, Options{MaxEvals: 40, RelTol: 1e-6})
	if err != nil {
		t.Fatalf("Optimize returned error instead of failure result: %v", err)
	}
	if res.Reason != AlgorithmFailure {
		t.Errorf("Expected AlgorithmFailure when every candidate is invalid, got %v", res.Reason)
	}
}

func TestDeterministicReproducibility(t *testing.T) {
	run := func() Result {
		res, err := Optimize(sphere, box(3, -5, 10), GlobalDeterministic, Options{MaxEvals: 150, RelTol: 1e-9})
		if err != nil {
			t.Fatalf("Optimize failed: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.F != b.F || a.Evaluations != b.Evaluations {
		t.Errorf("Non-reproducible: f %v vs %v, evals %d vs %d", a.F, b.F, a.Evaluations, b.Evaluations)
	}
	for i := range a.X {
		if a.X[i] != b.X[i] {
			t.Errorf("Position %d differs: %v vs %v", i, a.X[i], b.X[i])
		}
	}
}

func TestStochasticReproducibilityWithSeed(t *testing.T) {
	run := func(seed int64) Result {
		res, err := Optimize(sphere, box(2, -5, 5), GlobalStochastic, Options{MaxEvals: 1000, RelTol: 1e-6, Seed: seed})
		if err != nil {
			t.Fatalf("Optimize failed: %v", err)
		}
		return res
	}

	a, b := run(123), run(123)
	if a.F != b.F {
		t.Errorf("Same seed, different cost: %v vs %v", a.F, b.F)
	}
	for i := range a.X {
		if a.X[i] != b.X[i] {
			t.Errorf("Same seed, position %d differs: %v vs %v", i, a.X[i], b.X[i])
		}
	}
}
