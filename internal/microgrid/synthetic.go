package microgrid

import "math"

// SyntheticSimulator is a closed-form stand-in for a full dispatch simulator.
// It maps a scenario to plausible aggregate statistics using annual energy
// balances instead of an hourly operation loop, which makes it cheap,
// deterministic and monotone: more renewable capacity lowers cost until the
// absorption limit is reached, then curtailment dominates.
//
// It serves two purposes: the test double required by the sizing core's
// property tests, and a demo backend for the CLI. It is not a dispatch
// engine.
type SyntheticSimulator struct {
	// DirectUseShare is the fraction of annual load energy that renewables
	// can serve without storage (instantaneous match limit).
	DirectUseShare float64
	// StorageCyclesPerYear bounds how much surplus renewable energy the
	// battery can time-shift into served load per kWh of capacity.
	StorageCyclesPerYear float64
	// GenAvailability caps the generator's annual energy as a fraction of
	// rated power times hours in the series.
	GenAvailability float64
}

// NewSyntheticSimulator returns a simulator with the default response shape.
func NewSyntheticSimulator() *SyntheticSimulator {
	return &SyntheticSimulator{
		DirectUseShare:       0.55,
		StorageCyclesPerYear: 280,
		GenAvailability:      0.95,
	}
}

// Simulate evaluates the scenario's annual energy balance and economics.
//
// A zero-sized battery makes the storage cycle count undefined (division by
// rated energy), mirroring the degenerate ratios a real simulator hits at
// zero-sized components; it is surfaced as a SimulationError rather than
// papered over, which is why search spaces keep a strictly positive lower
// bound on such variables.
func (s *SyntheticSimulator) Simulate(sc Scenario) (OperationStats, CostStats, error) {
	if sc.Battery.EnergyRated <= 0 {
		return OperationStats{}, CostStats{}, newSimulationError(
			"storage cycle count undefined for zero rated energy", sc)
	}

	p := sc.Project
	dt := p.Timestep
	hours := float64(len(p.Load)) * dt
	loadEnergy := p.LoadEnergy()

	// Renewable potential from the capacity factor series.
	var solarSum, windSum float64
	for _, cf := range p.SolarCF {
		solarSum += cf
	}
	for _, cf := range p.WindCF {
		windSum += cf
	}
	pvEnergy := sc.PV.PowerRated * sc.PV.DeratingFactor * solarSum * dt
	windEnergy := sc.Wind.PowerRated * windSum * dt
	renewPotential := pvEnergy + windEnergy

	// Renewables serve the load directly up to the instantaneous match
	// limit; the battery time-shifts part of the surplus.
	directUse := math.Min(renewPotential, s.DirectUseShare*loadEnergy)
	surplus := renewPotential - directUse
	shiftCap := sc.Battery.EnergyRated * s.StorageCyclesPerYear
	shifted := math.Min(surplus, math.Min(shiftCap, loadEnergy-directUse))
	renewServed := directUse + shifted
	spilled := renewPotential - renewServed

	// The generator covers the residual up to its availability limit.
	residual := loadEnergy - renewServed
	genMax := sc.Generator.PowerRated * hours * s.GenAvailability
	genEnergy := math.Min(residual, genMax)
	shed := residual - genEnergy
	served := loadEnergy - shed

	var genHours, fuel float64
	if sc.Generator.PowerRated > 0 && genEnergy > 0 {
		genHours = genEnergy / sc.Generator.PowerRated
		fuel = sc.Generator.FuelIntercept*sc.Generator.PowerRated*genHours +
			sc.Generator.FuelSlope*genEnergy
	}

	throughput := 2 * shifted
	ops := OperationStats{
		ServedEnergy:         served,
		ShedEnergy:           shed,
		ShedRate:             safeRatio(shed, loadEnergy),
		ShedHours:            safeRatio(shed, p.PeakLoad()),
		ShedMax:              math.Min(p.PeakLoad(), safeRatio(shed, hours*0.1)),
		ShedDurationMax:      safeRatio(shed, p.PeakLoad()) * 0.5,
		GenHours:             genHours,
		GenFuel:              fuel,
		StorageThroughput:    throughput,
		StorageCycles:        throughput / (2 * sc.Battery.EnergyRated),
		SpilledEnergy:        spilled,
		SpilledMax:           safeRatio(spilled, hours*0.25),
		SpilledRate:          safeRatio(spilled, renewPotential),
		RenewPotentialEnergy: renewPotential,
		RenewEnergy:          renewServed,
		RenewRate:            safeRatio(renewServed, served),
	}

	costs := s.economics(sc, ops, fuel)
	return ops, costs, nil
}

func (s *SyntheticSimulator) economics(sc Scenario, ops OperationStats, fuel float64) CostStats {
	p := sc.Project

	investment := sc.Generator.PowerRated*sc.Generator.InvestmentPrice +
		sc.Battery.EnergyRated*sc.Battery.InvestmentPrice +
		sc.PV.PowerRated*sc.PV.InvestmentPrice +
		sc.Wind.PowerRated*sc.Wind.InvestmentPrice

	// Generator wears by operating hours, not calendar time.
	genLife := math.Inf(1)
	if ops.GenHours > 0 {
		genLife = sc.Generator.LifetimeHours / ops.GenHours
	}
	battLife := sc.Battery.LifetimeCalendar
	if ops.StorageCycles > 0 {
		battLife = math.Min(battLife, sc.Battery.LifetimeCycles/ops.StorageCycles)
	}

	annualCapex := sc.Generator.PowerRated*sc.Generator.InvestmentPrice*annuity(p.DiscountRate, genLife) +
		sc.Battery.EnergyRated*sc.Battery.InvestmentPrice*annuity(p.DiscountRate, battLife) +
		sc.PV.PowerRated*sc.PV.InvestmentPrice*annuity(p.DiscountRate, sc.PV.Lifetime) +
		sc.Wind.PowerRated*sc.Wind.InvestmentPrice*annuity(p.DiscountRate, sc.Wind.Lifetime)

	annualOM := sc.Generator.PowerRated*sc.Generator.OMPriceHours*ops.GenHours +
		sc.Battery.EnergyRated*sc.Battery.OMPrice +
		sc.PV.PowerRated*sc.PV.OMPrice +
		sc.Wind.PowerRated*sc.Wind.OMPrice

	annualFuel := fuel * sc.Generator.FuelPrice
	annualTotal := annualCapex + annualOM + annualFuel

	// LCOE is deliberately left non-finite when nothing is delivered.
	lcoe := annualTotal / ops.ServedEnergy
	npc := annualTotal / annuity(p.DiscountRate, p.Lifetime)

	return CostStats{
		LCOE:           lcoe,
		NPC:            npc,
		AnnualizedCost: annualTotal,
		Investment:     investment,
	}
}

// annuity returns the capital recovery factor for discount rate r over n
// years. For an infinite lifetime the factor is zero (no replacement cost).
func annuity(r, n float64) float64 {
	if math.IsInf(n, 1) {
		return 0
	}
	if n <= 0 {
		return math.NaN()
	}
	if r == 0 {
		return 1 / n
	}
	return r / (1 - math.Pow(1+r, -n))
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
