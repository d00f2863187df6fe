package sizing

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/offgridlab/gridsizer/internal/opt"
)

// ObjectiveConfig parameterizes the exterior-penalty scalarization. It is
// immutable for the duration of a run.
type ObjectiveConfig struct {
	// ShedMax is the load-shedding rate above which the penalty applies,
	// in [0, 1).
	ShedMax float64
	// PenaltyWeight scales the constraint violation. It is kept orders of
	// magnitude above typical LCOE values so any feasible candidate ranks
	// ahead of any infeasible one, while the linear slope still tells a
	// gradient-free search how far outside the feasible region it is.
	PenaltyWeight float64
}

// Validate checks the configuration before optimization starts.
func (c ObjectiveConfig) Validate() error {
	if c.ShedMax < 0 || c.ShedMax >= 1 {
		return fmt.Errorf("shed max must be in [0, 1), got %g", c.ShedMax)
	}
	if c.PenaltyWeight <= 0 {
		return fmt.Errorf("penalty weight must be positive, got %g", c.PenaltyWeight)
	}
	return nil
}

// Objective builds the penalized scalar objective:
//
//	lcoe + penaltyWeight * max(0, shedRate - shedMax)
//
// The penalty is exactly zero inside the feasible region, including at the
// boundary, so a binding-but-satisfied constraint introduces no bias.
//
// Per-candidate failures never abort a run: a simulator fault ranks the
// candidate worst (+Inf), and a non-finite LCOE propagates so the optimizer
// treats the candidate as invalid rather than crashing.
func Objective(adapter *Adapter, space *Space, cfg ObjectiveConfig) opt.Objective {
	return func(x []float64) float64 {
		v := space.Clip(Vector(x))

		ops, costs, err := adapter.Evaluate(v)
		if err != nil {
			slog.Debug("Candidate simulation failed", "sizing", v.Named(), "error", err)
			return math.Inf(1)
		}

		crit := ExtractCriteria(ops, costs)
		objective := crit.LCOE
		if over := crit.ShedRate - cfg.ShedMax; over > 0 {
			objective += cfg.PenaltyWeight * over
		}
		return objective
	}
}
