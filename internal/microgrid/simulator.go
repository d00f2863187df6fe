package microgrid

import "fmt"

// Simulator is the single external dependency of the sizing core: one
// synchronous, single-shot evaluation of a fully described scenario.
//
// Implementations must be stateless across calls; every invocation is an
// independent simulation.
type Simulator interface {
	Simulate(sc Scenario) (OperationStats, CostStats, error)
}

// SimulationError reports a simulator-side fault on a given scenario, for
// example a degenerate economic ratio triggered by a zero-sized component.
// It is not retried; the driver treats the failing candidate as worst-ranked
// and continues the search.
type SimulationError struct {
	Reason string
	Sizing map[string]float64 // offending sizes in simulator units
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %s (sizing: %v)", e.Reason, e.Sizing)
}

func newSimulationError(reason string, sc Scenario) *SimulationError {
	return &SimulationError{
		Reason: reason,
		Sizing: map[string]float64{
			"generator_kW": sc.Generator.PowerRated,
			"battery_kWh":  sc.Battery.EnergyRated,
			"pv_kW":        sc.PV.PowerRated,
			"wind_kW":      sc.Wind.PowerRated,
		},
	}
}
