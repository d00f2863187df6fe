package sizing

import (
	"fmt"

	"github.com/offgridlab/gridsizer/internal/microgrid"
)

// Adapter maps a sizing vector to one simulator invocation. The base
// scenario carries the fixed techno-economic parameters and time series; only
// the four rated sizes change between evaluations.
//
// There is deliberately no caching: the same vector may be re-evaluated by
// different optimizer iterations, and memoizing would silently mask simulator
// non-determinism or parameter drift.
type Adapter struct {
	sim  microgrid.Simulator
	base microgrid.Scenario
}

// NewAdapter builds an adapter over the given simulator and fixed scenario
// parameters. The rated sizes in base are ignored.
func NewAdapter(sim microgrid.Simulator, base microgrid.Scenario) *Adapter {
	return &Adapter{sim: sim, base: base}
}

// Evaluate scales x to simulator units, assembles a fresh scenario and runs
// one simulation. Simulator faults propagate unchanged; recovery is the
// caller's concern.
func (a *Adapter) Evaluate(x Vector) (microgrid.OperationStats, microgrid.CostStats, error) {
	if len(x) != Dim() {
		return microgrid.OperationStats{}, microgrid.CostStats{},
			fmt.Errorf("sizing vector has %d variables, want %d", len(x), Dim())
	}

	scaled := x.ToSimulatorUnits()
	sc := a.base
	sc.Generator.PowerRated = scaled[0]
	sc.Battery.EnergyRated = scaled[1]
	sc.PV.PowerRated = scaled[2]
	sc.Wind.PowerRated = scaled[3]

	return a.sim.Simulate(sc)
}
