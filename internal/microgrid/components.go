// Package microgrid defines the boundary to the techno-economic microgrid
// simulator: component descriptors, fixed project parameters, and the
// aggregated operation and cost statistics a single simulation produces.
//
// The simulator itself (hourly dispatch, cash-flow discounting, degradation)
// is an external collaborator behind the Simulator interface; this package
// never re-implements it.
package microgrid

// DispatchableGenerator describes a fuel-burning generator (e.g. diesel).
// All powers are in simulator units (kW).
type DispatchableGenerator struct {
	PowerRated      float64 // rated power (kW)
	FuelIntercept   float64 // no-load fuel consumption (L/h per kW rated)
	FuelSlope       float64 // marginal fuel consumption (L/kWh)
	FuelPrice       float64 // fuel price (currency/L)
	InvestmentPrice float64 // investment price (currency/kW)
	OMPriceHours    float64 // operation & maintenance price (currency/h of operation per kW rated)
	LifetimeHours   float64 // lifetime in operating hours
	LoadRatioMin    float64 // minimum load ratio in [0,1]
}

// Battery describes an energy storage unit. Energies are in kWh.
type Battery struct {
	EnergyRated      float64 // rated energy capacity (kWh)
	InvestmentPrice  float64 // investment price (currency/kWh)
	OMPrice          float64 // operation & maintenance price (currency/kWh/y)
	LifetimeCalendar float64 // calendar lifetime (y)
	LifetimeCycles   float64 // maximum number of cycles
	ChargeRateMax    float64 // max charge power as fraction of rated energy (kW/kWh)
	DischargeRateMax float64 // max discharge power as fraction of rated energy (kW/kWh)
	Loss             float64 // linear loss factor in [0,1]
}

// Photovoltaic describes a PV plant. Power is in kW.
type Photovoltaic struct {
	PowerRated      float64 // rated power (kW)
	InvestmentPrice float64 // investment price (currency/kW)
	OMPrice         float64 // operation & maintenance price (currency/kW/y)
	Lifetime        float64 // lifetime (y)
	DeratingFactor  float64 // derating factor in [0,1]
}

// WindTurbine describes a wind power plant. Power is in kW.
type WindTurbine struct {
	PowerRated      float64 // rated power (kW)
	InvestmentPrice float64 // investment price (currency/kW)
	OMPrice         float64 // operation & maintenance price (currency/kW/y)
	Lifetime        float64 // lifetime (y)
}

// Project holds the fixed project-level parameters and time series shared by
// every simulation of a sizing study. It is loaded once before optimization
// begins and never mutated afterwards.
type Project struct {
	DiscountRate float64 // real discount rate in [0,1)
	Lifetime     float64 // project lifetime (y)
	Timestep     float64 // duration of one time series step (h)
	Currency     string

	// Fixed time series, one value per timestep over the simulated year.
	Load    []float64 // desired load power (kW)
	SolarCF []float64 // solar capacity factor in [0,1]
	WindCF  []float64 // wind capacity factor in [0,1]
}

// Scenario is the full input of one simulator invocation: the fixed project
// description plus one concrete sizing of each component.
type Scenario struct {
	Project   Project
	Generator DispatchableGenerator
	Battery   Battery
	PV        Photovoltaic
	Wind      WindTurbine
}

// LoadEnergy returns the cumulated desired load energy over the series (kWh).
func (p Project) LoadEnergy() float64 {
	var sum float64
	for _, v := range p.Load {
		sum += v
	}
	return sum * p.Timestep
}

// PeakLoad returns the maximum desired load power (kW).
func (p Project) PeakLoad() float64 {
	var peak float64
	for _, v := range p.Load {
		if v > peak {
			peak = v
		}
	}
	return peak
}
