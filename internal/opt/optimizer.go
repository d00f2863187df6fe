// Package opt provides derivative-free optimization backends behind a single
// interface, plus the driver that dispatches between them, counts objective
// evaluations and classifies how a run terminated.
package opt

import (
	"errors"
	"fmt"
)

// Objective is a scalar function to minimize. Non-finite return values mark
// invalid candidates; backends must rank them worst, not crash on them.
type Objective func(x []float64) float64

// Bounds holds the per-dimension search box and the starting point used by
// local backends.
type Bounds struct {
	Lower   []float64
	Upper   []float64
	Initial []float64
}

// Dim returns the dimensionality of the box.
func (b Bounds) Dim() int { return len(b.Lower) }

// TerminationReason classifies why an optimization run stopped.
type TerminationReason int

const (
	// Converged means the relative change between the final objective
	// evaluations fell below the configured tolerance.
	Converged TerminationReason = iota
	// EvalBudgetExhausted means the evaluation budget was reached. This is
	// not an error, merely a possibly premature stop.
	EvalBudgetExhausted
	// AlgorithmFailure means the backend broke down numerically, for
	// example a non-finite objective propagated too far. The best candidate
	// seen is still reported.
	AlgorithmFailure
)

func (r TerminationReason) String() string {
	switch r {
	case Converged:
		return "converged"
	case EvalBudgetExhausted:
		return "eval_budget_exhausted"
	case AlgorithmFailure:
		return "algorithm_failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler for reports.
func (r TerminationReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// AlgorithmID selects an optimization backend.
type AlgorithmID string

const (
	// GlobalDeterministic is a DIRECT-style space-partitioning search.
	GlobalDeterministic AlgorithmID = "global-deterministic"
	// GlobalStochastic is the mayfly swarm algorithm.
	GlobalStochastic AlgorithmID = "global-stochastic"
	// Local is a Nelder-Mead simplex search seeded at the initial point.
	Local AlgorithmID = "local"
)

// ErrUnsupportedAlgorithm is returned for algorithm identifiers outside the
// enumerated set, before any objective evaluation is performed.
var ErrUnsupportedAlgorithm = errors.New("unsupported optimization algorithm")

// ParseAlgorithm maps a configuration string to an AlgorithmID.
func ParseAlgorithm(s string) (AlgorithmID, error) {
	switch AlgorithmID(s) {
	case GlobalDeterministic, GlobalStochastic, Local:
		return AlgorithmID(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

// Options configures one optimization run.
type Options struct {
	// MaxEvals is a soft cap on objective evaluations: backends that
	// evaluate in batches finish the batch in flight, so the consumed count
	// may overshoot by a bounded amount and is reported exactly.
	MaxEvals int
	// RelTol is the relative-change convergence tolerance on successive
	// objective evaluations.
	RelTol float64
	// Seed drives stochastic backends; deterministic backends ignore it.
	Seed int64
}

// Validate checks the options before any evaluation happens.
func (o Options) Validate() error {
	if o.MaxEvals <= 0 {
		return fmt.Errorf("max evals must be positive, got %d", o.MaxEvals)
	}
	if o.RelTol <= 0 {
		return fmt.Errorf("rel tol must be positive, got %g", o.RelTol)
	}
	return nil
}

// Result is the outcome of one optimization run.
type Result struct {
	X           []float64         `json:"x"`
	F           float64           `json:"f"`
	Evaluations int               `json:"evaluations"`
	Reason      TerminationReason `json:"reason"`
}

// Optimizer is the backend interface. Run minimizes eval over the box and
// reports the best candidate with the backend's view of why it stopped.
// A non-nil error means numerical breakdown; the driver translates it into
// an AlgorithmFailure result rather than surfacing it to callers.
type Optimizer interface {
	Run(eval Objective, b Bounds) (Result, error)
}
