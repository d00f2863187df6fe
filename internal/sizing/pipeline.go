package sizing

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/offgridlab/gridsizer/internal/opt"
)

// PipelineConfig configures the chained optimization run: one global search
// stage, an optional local polish stage seeded at the global optimum, and the
// final full-fidelity report.
type PipelineConfig struct {
	Algorithm opt.AlgorithmID
	MaxEvals  int
	RelTol    float64
	Seed      int64

	// PolishEvals is the evaluation budget of the local polish stage;
	// zero skips polishing entirely.
	PolishEvals int

	Objective ObjectiveConfig
}

// RunPipeline executes the sizing optimization end to end. Configuration
// errors surface before any simulation; per-candidate failures are absorbed
// by the objective and never abort the run.
func RunPipeline(adapter *Adapter, space *Space, cfg PipelineConfig) (*Report, error) {
	if err := cfg.Objective.Validate(); err != nil {
		return nil, err
	}
	if _, err := opt.ParseAlgorithm(string(cfg.Algorithm)); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	objective := Objective(adapter, space, cfg.Objective)

	slog.Info("Starting sizing optimization",
		"run_id", runID,
		"algorithm", string(cfg.Algorithm),
		"max_evals", cfg.MaxEvals,
		"shed_max", cfg.Objective.ShedMax,
	)

	global, err := opt.Optimize(objective, opt.Bounds{
		Lower:   space.Lower,
		Upper:   space.Upper,
		Initial: space.Initial,
	}, cfg.Algorithm, opt.Options{
		MaxEvals: cfg.MaxEvals,
		RelTol:   cfg.RelTol,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("global stage: %w", err)
	}

	best := Vector(global.X)
	bestF := global.F
	stages := []StageSummary{{
		Name:        "global",
		Algorithm:   cfg.Algorithm,
		Objective:   global.F,
		Evaluations: global.Evaluations,
		Reason:      global.Reason,
	}}

	if cfg.PolishEvals > 0 {
		polish, err := Polish(best, objective, space, cfg.PolishEvals, cfg.RelTol)
		if err != nil {
			return nil, fmt.Errorf("polish stage: %w", err)
		}
		stages = append(stages, StageSummary{
			Name:        "polish",
			Algorithm:   opt.Local,
			Objective:   polish.F,
			Evaluations: polish.Evaluations,
			Reason:      polish.Reason,
		})
		// Polish can only improve; keep the global optimum otherwise.
		if polish.F <= global.F {
			best = Vector(polish.X)
			bestF = polish.F
		} else {
			slog.Warn("Polish stage did not improve on global optimum",
				"global", global.F, "polish", polish.F)
		}
	}

	report, err := BuildReport(runID, adapter, best, stages)
	if err != nil {
		return nil, err
	}
	report.BestObjective = bestF

	slog.Info("Sizing optimization complete",
		"run_id", runID,
		"lcoe", report.LCOE,
		"shed_rate", report.ShedRate,
		"evaluations", report.Evaluations,
		"termination", report.Termination.String(),
	)
	return report, nil
}

// Polish refines a previously found optimum with a local search seeded at
// x_start under a smaller evaluation budget. Global backends converge slowly
// near an optimum; a local method typically buys a further improvement
// cheaply. The stage is optional and skippable.
func Polish(xStart Vector, objective opt.Objective, space *Space, maxEvals int, relTol float64) (opt.Result, error) {
	slog.Info("Polishing optimum", "start", xStart.Named(), "max_evals", maxEvals)
	return opt.Optimize(objective, opt.Bounds{
		Lower:   space.Lower,
		Upper:   space.Upper,
		Initial: space.Clip(xStart),
	}, opt.Local, opt.Options{
		MaxEvals: maxEvals,
		RelTol:   relTol,
	})
}
