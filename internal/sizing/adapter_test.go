package sizing

import (
	"errors"
	"testing"

	"github.com/offgridlab/gridsizer/internal/microgrid"
)

// stubSimulator maps scenarios to canned statistics; the test double for the
// external simulator boundary.
type stubSimulator struct {
	fn    func(sc microgrid.Scenario) (microgrid.OperationStats, microgrid.CostStats, error)
	calls int
}

func (s *stubSimulator) Simulate(sc microgrid.Scenario) (microgrid.OperationStats, microgrid.CostStats, error) {
	s.calls++
	return s.fn(sc)
}

func baseScenario() microgrid.Scenario {
	return microgrid.Scenario{
		Project: microgrid.Project{
			DiscountRate: 0.05,
			Lifetime:     25,
			Timestep:     1,
			Load:         []float64{1000, 1500, 2000},
		},
		Generator: microgrid.DispatchableGenerator{FuelSlope: 0.3},
		Battery:   microgrid.Battery{InvestmentPrice: 350},
	}
}

func TestAdapterScalesToSimulatorUnits(t *testing.T) {
	var got microgrid.Scenario
	sim := &stubSimulator{fn: func(sc microgrid.Scenario) (microgrid.OperationStats, microgrid.CostStats, error) {
		got = sc
		return microgrid.OperationStats{}, microgrid.CostStats{}, nil
	}}
	adapter := NewAdapter(sim, baseScenario())

	if _, _, err := adapter.Evaluate(Vector{1.8, 5, 3, 0.9}); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if got.Generator.PowerRated != 1800 {
		t.Errorf("Generator power = %g kW, want 1800", got.Generator.PowerRated)
	}
	if got.Battery.EnergyRated != 5000 {
		t.Errorf("Battery energy = %g kWh, want 5000", got.Battery.EnergyRated)
	}
	if got.PV.PowerRated != 3000 {
		t.Errorf("PV power = %g kW, want 3000", got.PV.PowerRated)
	}
	if got.Wind.PowerRated != 900 {
		t.Errorf("Wind power = %g kW, want 900", got.Wind.PowerRated)
	}
	// Fixed techno-economic parameters ride along unchanged.
	if got.Generator.FuelSlope != 0.3 || got.Battery.InvestmentPrice != 350 {
		t.Error("Fixed parameters were not carried into the scenario")
	}
	if len(got.Project.Load) != 3 {
		t.Error("Load series was not carried into the scenario")
	}
}

func TestAdapterNeverCaches(t *testing.T) {
	sim := &stubSimulator{fn: func(sc microgrid.Scenario) (microgrid.OperationStats, microgrid.CostStats, error) {
		return microgrid.OperationStats{}, microgrid.CostStats{}, nil
	}}
	adapter := NewAdapter(sim, baseScenario())

	x := Vector{1, 1, 1, 1}
	for i := 0; i < 3; i++ {
		if _, _, err := adapter.Evaluate(x); err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
	}
	if sim.calls != 3 {
		t.Errorf("Expected 3 fresh simulations for 3 evaluations of the same vector, got %d", sim.calls)
	}
}

func TestAdapterPropagatesSimulatorFault(t *testing.T) {
	fault := &microgrid.SimulationError{Reason: "degenerate lifetime"}
	sim := &stubSimulator{fn: func(sc microgrid.Scenario) (microgrid.OperationStats, microgrid.CostStats, error) {
		return microgrid.OperationStats{}, microgrid.CostStats{}, fault
	}}
	adapter := NewAdapter(sim, baseScenario())

	_, _, err := adapter.Evaluate(Vector{1, 1, 1, 1})
	var simErr *microgrid.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("Expected the simulator fault to propagate, got %v", err)
	}
}

func TestAdapterRejectsWrongDimension(t *testing.T) {
	sim := &stubSimulator{fn: func(sc microgrid.Scenario) (microgrid.OperationStats, microgrid.CostStats, error) {
		return microgrid.OperationStats{}, microgrid.CostStats{}, nil
	}}
	adapter := NewAdapter(sim, baseScenario())

	if _, _, err := adapter.Evaluate(Vector{1, 2}); err == nil {
		t.Error("Expected error for a 2-vector in a 4-variable problem")
	}
	if sim.calls != 0 {
		t.Errorf("Simulator must not run for malformed input, got %d calls", sim.calls)
	}
}
