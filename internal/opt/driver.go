package opt

import (
	"fmt"
	"log/slog"
	"math"
)

// counter wraps an objective to count evaluations, remember the best finite
// candidate and the last two values seen, and sanitize NaN to +Inf so that
// backend comparisons stay well defined. The raw value is what the search
// minimizes; sanitizing only affects ranking, never reporting.
type counter struct {
	eval  Objective
	count int
	bestX []float64
	bestF float64
	prevF float64
	lastF float64
}

func newCounter(eval Objective) *counter {
	return &counter{
		eval:  eval,
		bestF: math.Inf(1),
		prevF: math.NaN(),
		lastF: math.NaN(),
	}
}

func (c *counter) call(x []float64) float64 {
	f := c.eval(x)
	c.count++
	if math.IsNaN(f) {
		f = math.Inf(1)
	}
	c.prevF, c.lastF = c.lastF, f
	if f < c.bestF {
		c.bestF = f
		c.bestX = append([]float64(nil), x...)
	}
	return f
}

// lastTwoWithin reports whether the final two evaluations differ by less
// than relTol in relative terms.
func (c *counter) lastTwoWithin(relTol float64) bool {
	if math.IsNaN(c.prevF) || math.IsNaN(c.lastF) {
		return false
	}
	if math.IsInf(c.prevF, 0) || math.IsInf(c.lastF, 0) {
		return false
	}
	scale := math.Max(1, math.Abs(c.prevF))
	return math.Abs(c.lastF-c.prevF) < relTol*scale
}

// Optimize runs the selected backend over the box with the given options.
//
// Configuration errors (unknown algorithm, malformed box or options) are
// returned before any evaluation happens. Backend numerical breakdown is not
// an error: it yields a Result with Reason AlgorithmFailure carrying the best
// candidate seen, so callers can still inspect it.
func Optimize(eval Objective, b Bounds, alg AlgorithmID, o Options) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, err
	}
	if err := validateBounds(b); err != nil {
		return Result{}, err
	}

	var backend Optimizer
	switch alg {
	case GlobalDeterministic:
		backend = newDirect(o)
	case GlobalStochastic:
		backend = newMayfly(o)
	case Local:
		backend = newNelderMead(o)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}

	cnt := newCounter(eval)
	res, err := backend.Run(cnt.call, b)
	res.Evaluations = cnt.count

	if err != nil {
		slog.Warn("Optimization backend failed",
			"algorithm", string(alg),
			"evaluations", cnt.count,
			"error", err,
		)
		return Result{
			X:           cnt.bestX,
			F:           cnt.bestF,
			Evaluations: cnt.count,
			Reason:      AlgorithmFailure,
		}, nil
	}

	if res.X == nil {
		res.X = cnt.bestX
		res.F = cnt.bestF
	}

	// A convergence claim must be certified by the evaluation stream. If
	// the backend stopped on its own stagnation criterion but the last two
	// evaluations are not within tolerance, re-evaluate the incumbent twice
	// (fresh simulations, never memoized) to confirm. An objective that
	// does not reproduce its own values fails the confirmation: that is a
	// numerical breakdown, unless the budget ran out in the process.
	if res.Reason == Converged && !cnt.lastTwoWithin(o.RelTol) {
		cnt.call(res.X)
		cnt.call(res.X)
		res.Evaluations = cnt.count
		if !cnt.lastTwoWithin(o.RelTol) {
			if cnt.count >= o.MaxEvals {
				res.Reason = EvalBudgetExhausted
			} else {
				res.Reason = AlgorithmFailure
			}
		}
	}

	// A best candidate that is still non-finite means invalid objectives
	// propagated all the way through the search.
	if !finite(res.F) {
		res.Reason = AlgorithmFailure
	}

	slog.Info("Optimization run complete",
		"algorithm", string(alg),
		"evaluations", res.Evaluations,
		"best", res.F,
		"reason", res.Reason.String(),
	)
	return res, nil
}

func validateBounds(b Bounds) error {
	n := len(b.Lower)
	if n == 0 {
		return fmt.Errorf("empty search bounds")
	}
	if len(b.Upper) != n {
		return fmt.Errorf("bounds dimension mismatch: %d lower vs %d upper", n, len(b.Upper))
	}
	if b.Initial != nil && len(b.Initial) != n {
		return fmt.Errorf("initial point dimension mismatch: %d vs %d", len(b.Initial), n)
	}
	for i := 0; i < n; i++ {
		if !finite(b.Lower[i]) || !finite(b.Upper[i]) {
			return fmt.Errorf("non-finite bound at dimension %d", i)
		}
		if b.Initial != nil && !finite(b.Initial[i]) {
			return fmt.Errorf("non-finite initial point at dimension %d", i)
		}
		if b.Lower[i] > b.Upper[i] {
			return fmt.Errorf("lower bound %d exceeds upper bound (%g > %g)", i, b.Lower[i], b.Upper[i])
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
