package opt

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// mayfly v0.1.0 rejects smaller populations.
const mayflyPopSize = 20

// One generation evaluates the male swarm, the female swarm and their
// crossover offspring, so an iteration costs about three times the population
// size in objective calls (plus a one-off initialization of both swarms).
const mayflyEvalsPerGen = 3 * mayflyPopSize

// mayflyBackend wraps the external mayfly swarm library. The library only
// accepts scalar bounds shared by every dimension, so the swarm runs in the
// normalized unit cube and candidates are rescaled inside the objective
// wrapper; per-variable bounds are honored exactly.
type mayflyBackend struct {
	maxEvals int
	seed     int64
}

func newMayfly(o Options) *mayflyBackend {
	return &mayflyBackend{maxEvals: o.MaxEvals, seed: o.Seed}
}

// Run executes the swarm for as many full generations as the evaluation
// budget allows, calibrated from the library's per-generation evaluation
// cost; the overshoot is at most the initialization plus one generation in
// flight. The swarm has no mid-flight stopping hook, so this backend never
// claims convergence; a completed run is a budget stop.
func (m *mayflyBackend) Run(eval Objective, b Bounds) (Result, error) {
	dim := b.Dim()

	cfg := mayfly.NewDefaultConfig()
	cfg.ObjectiveFunc = func(z []float64) float64 {
		return eval(denormalize(z, b))
	}
	cfg.ProblemSize = dim
	cfg.NPop = mayflyPopSize
	cfg.MaxIterations = max(1, m.maxEvals/mayflyEvalsPerGen)
	cfg.LowerBound = 0
	cfg.UpperBound = 1
	cfg.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("mayfly optimization: %w", err)
	}

	return Result{
		X:      denormalize(result.GlobalBest.Position, b),
		F:      result.GlobalBest.Cost,
		Reason: EvalBudgetExhausted,
	}, nil
}

func denormalize(z []float64, b Bounds) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		x[i] = b.Lower[i] + v*(b.Upper[i]-b.Lower[i])
	}
	return x
}
