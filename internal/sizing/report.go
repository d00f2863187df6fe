package sizing

import (
	"fmt"
	"strings"

	"github.com/offgridlab/gridsizer/internal/microgrid"
	"github.com/offgridlab/gridsizer/internal/opt"
)

// SizingEntry is one variable of the final sizing, in both unit systems.
type SizingEntry struct {
	Name           string  `json:"name"`
	OptimizerValue float64 `json:"optimizerValue"`
	OptimizerUnit  string  `json:"optimizerUnit"`
	SimulatorValue float64 `json:"simulatorValue"`
	SimulatorUnit  string  `json:"simulatorUnit"`
}

// StageSummary records one optimization stage of the pipeline.
type StageSummary struct {
	Name        string                `json:"name"`
	Algorithm   opt.AlgorithmID       `json:"algorithm"`
	Objective   float64               `json:"objective"`
	Evaluations int                   `json:"evaluations"`
	Reason      opt.TerminationReason `json:"reason"`
}

// Report decouples what the optimizer minimized from what a human needs to
// see: the final sizing is re-simulated at full fidelity, so the raw LCOE and
// reliability statistics appear unpenalized.
type Report struct {
	RunID         string                   `json:"runId"`
	Sizing        []SizingEntry            `json:"sizing"`
	LCOE          float64                  `json:"lcoe"`
	ShedRate      float64                  `json:"shedRate"`
	NPC           float64                  `json:"npc"`
	RenewRate     float64                  `json:"renewRate"`
	Operation     microgrid.OperationStats `json:"operation"`
	Costs         microgrid.CostStats      `json:"costs"`
	Evaluations   int                      `json:"evaluationsUsed"`
	Termination   opt.TerminationReason    `json:"terminationReason"`
	Stages        []StageSummary           `json:"stages"`
	BestObjective float64                  `json:"bestObjective"`
}

// BuildReport re-evaluates the final sizing through the adapter and assembles
// the full human-readable result.
func BuildReport(runID string, adapter *Adapter, x Vector, stages []StageSummary) (*Report, error) {
	ops, costs, err := adapter.Evaluate(x)
	if err != nil {
		return nil, fmt.Errorf("final evaluation of optimum: %w", err)
	}
	crit := ExtractCriteria(ops, costs)

	scaled := x.ToSimulatorUnits()
	entries := make([]SizingEntry, len(x))
	for i := range x {
		entries[i] = SizingEntry{
			Name:           Variables[i].Name,
			OptimizerValue: x[i],
			OptimizerUnit:  Variables[i].OptUnit,
			SimulatorValue: scaled[i],
			SimulatorUnit:  Variables[i].SimUnit,
		}
	}

	var evals int
	var last StageSummary
	for _, st := range stages {
		evals += st.Evaluations
		last = st
	}

	return &Report{
		RunID:         runID,
		Sizing:        entries,
		LCOE:          crit.LCOE,
		ShedRate:      crit.ShedRate,
		NPC:           costs.NPC,
		RenewRate:     ops.RenewRate,
		Operation:     ops,
		Costs:         costs,
		Evaluations:   evals,
		Termination:   last.Reason,
		Stages:        stages,
		BestObjective: last.Objective,
	}, nil
}

// String renders the report for terminal output.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", r.RunID)
	for _, e := range r.Sizing {
		fmt.Fprintf(&b, "  %-16s %10.3f %-4s (%.1f %s)\n",
			e.Name, e.OptimizerValue, e.OptimizerUnit, e.SimulatorValue, e.SimulatorUnit)
	}
	fmt.Fprintf(&b, "  %-16s %10.4f\n", "lcoe", r.LCOE)
	fmt.Fprintf(&b, "  %-16s %10.4f\n", "shed_rate", r.ShedRate)
	fmt.Fprintf(&b, "  %-16s %10.0f\n", "npc", r.NPC)
	fmt.Fprintf(&b, "  %-16s %10.4f\n", "renew_rate", r.RenewRate)
	fmt.Fprintf(&b, "  %-16s %10d\n", "evaluations", r.Evaluations)
	fmt.Fprintf(&b, "  %-16s %10s\n", "termination", r.Termination)
	return b.String()
}
