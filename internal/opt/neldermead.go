package opt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// nelderMeadBackend runs gonum's Nelder-Mead simplex search seeded at the
// box's initial point. Gonum's method is unconstrained, so candidates are
// clipped onto the box before evaluation, the same projection the sizing
// layer applies defensively.
type nelderMeadBackend struct {
	maxEvals int
	relTol   float64
}

func newNelderMead(o Options) *nelderMeadBackend {
	return &nelderMeadBackend{maxEvals: o.MaxEvals, relTol: o.RelTol}
}

func (n *nelderMeadBackend) Run(eval Objective, b Bounds) (Result, error) {
	x0 := b.Initial
	if x0 == nil {
		x0 = midpoint(b)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return eval(clip(x, b))
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: n.maxEvals,
		Converger: &optimize.FunctionConverge{
			Relative:   n.relTol,
			Iterations: 2 * b.Dim(),
		},
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return Result{}, fmt.Errorf("nelder-mead: %w", err)
	}

	reason := EvalBudgetExhausted
	switch res.Status {
	case optimize.FunctionConvergence:
		reason = Converged
	case optimize.FunctionEvaluationLimit:
		reason = EvalBudgetExhausted
	case optimize.Failure:
		return Result{}, fmt.Errorf("nelder-mead: status %v", res.Status)
	}

	return Result{
		X:      clip(res.X, b),
		F:      res.F,
		Reason: reason,
	}, nil
}

func clip(x []float64, b Bounds) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Max(b.Lower[i], math.Min(b.Upper[i], v))
	}
	return y
}

func midpoint(b Bounds) []float64 {
	m := make([]float64, b.Dim())
	for i := range m {
		m[i] = 0.5 * (b.Lower[i] + b.Upper[i])
	}
	return m
}
