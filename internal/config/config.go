// Package config defines the sizing study configuration and loads it from a
// YAML file. Everything here is fixed before optimization starts; no
// configuration value is an optimization variable.
package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/offgridlab/gridsizer/internal/microgrid"
	"github.com/offgridlab/gridsizer/internal/opt"
	"github.com/offgridlab/gridsizer/internal/sizing"
)

// Configuration holds the full description of one sizing study.
type Configuration struct {
	Project   ProjectConfig
	Profiles  ProfilesConfig
	Generator GeneratorConfig
	Battery   BatteryConfig
	PV        PVConfig
	Wind      WindConfig
	Search    SearchConfig
	Objective ObjectiveConfig
	Optimizer OptimizerConfig
}

// ProjectConfig holds project-level economics.
type ProjectConfig struct {
	DiscountRate float64
	Lifetime     float64 // years
	Timestep     float64 // hours
	Currency     string
}

// ProfilesConfig parameterizes the synthetic demand and resource profiles
// used by the demo simulator. A production integration would supply measured
// series to the simulator directly instead.
type ProfilesConfig struct {
	Hours       int     // number of timesteps in the simulated year
	PeakLoad    float64 // peak load power (kW)
	BaseLoad    float64 // overnight minimum load power (kW)
	SolarCFMean float64 // mean solar capacity factor in [0,1]
	WindCFMean  float64 // mean wind capacity factor in [0,1]
}

// GeneratorConfig holds the dispatchable generator's techno-economics
// (everything but the rated power, which is an optimization variable).
type GeneratorConfig struct {
	FuelIntercept   float64
	FuelSlope       float64
	FuelPrice       float64
	InvestmentPrice float64
	OMPriceHours    float64
	LifetimeHours   float64
	LoadRatioMin    float64
}

// BatteryConfig holds the storage techno-economics.
type BatteryConfig struct {
	InvestmentPrice  float64
	OMPrice          float64
	LifetimeCalendar float64
	LifetimeCycles   float64
	ChargeRateMax    float64
	DischargeRateMax float64
	Loss             float64
}

// PVConfig holds the photovoltaic techno-economics.
type PVConfig struct {
	InvestmentPrice float64
	OMPrice         float64
	Lifetime        float64
	DeratingFactor  float64
}

// WindConfig holds the wind turbine techno-economics.
type WindConfig struct {
	InvestmentPrice float64
	OMPrice         float64
	Lifetime        float64
}

// SearchConfig holds the per-variable bounds and initial point, in optimizer
// units (MW / MWh), ordered as sizing.Variables.
type SearchConfig struct {
	Lower   []float64
	Upper   []float64
	Initial []float64
}

// ObjectiveConfig holds the penalty scalarization parameters.
type ObjectiveConfig struct {
	ShedMax       float64
	PenaltyWeight float64
}

// OptimizerConfig holds the optimization run options.
type OptimizerConfig struct {
	Algorithm   string
	MaxEvals    int
	RelTol      float64
	Seed        int64
	PolishEvals int
}

// LoadConfiguration reads and decodes the study configuration file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var configuration Configuration
	if err := viper.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return &configuration, nil
}

// Validate checks everything that must hold before any simulation runs.
func (conf *Configuration) Validate() error {
	if conf.Project.Lifetime <= 0 {
		return fmt.Errorf("project lifetime must be positive, got %g", conf.Project.Lifetime)
	}
	if conf.Project.Timestep <= 0 {
		return fmt.Errorf("project timestep must be positive, got %g", conf.Project.Timestep)
	}
	if conf.Project.DiscountRate < 0 || conf.Project.DiscountRate >= 1 {
		return fmt.Errorf("discount rate must be in [0, 1), got %g", conf.Project.DiscountRate)
	}
	if conf.Profiles.Hours <= 0 {
		return fmt.Errorf("profile hours must be positive, got %d", conf.Profiles.Hours)
	}
	if conf.Profiles.PeakLoad <= 0 {
		return fmt.Errorf("peak load must be positive, got %g", conf.Profiles.PeakLoad)
	}
	if conf.Optimizer.MaxEvals <= 0 {
		return fmt.Errorf("optimizer max evals must be positive, got %d", conf.Optimizer.MaxEvals)
	}
	if conf.Optimizer.RelTol <= 0 {
		return fmt.Errorf("optimizer rel tol must be positive, got %g", conf.Optimizer.RelTol)
	}
	if conf.Optimizer.PolishEvals < 0 {
		return fmt.Errorf("polish evals must be non-negative, got %d", conf.Optimizer.PolishEvals)
	}
	if n := len(sizing.Variables); len(conf.Search.Lower) != n ||
		len(conf.Search.Upper) != n || len(conf.Search.Initial) != n {
		return fmt.Errorf("search space must have %d variables (lower=%d upper=%d initial=%d)",
			n, len(conf.Search.Lower), len(conf.Search.Upper), len(conf.Search.Initial))
	}
	return nil
}

// Space builds the validated search space.
func (conf *Configuration) Space() (*sizing.Space, error) {
	return sizing.NewSpace(conf.Search.Lower, conf.Search.Upper, conf.Search.Initial)
}

// BaseScenario assembles the fixed simulator inputs: project economics,
// component techno-economics and the synthetic demand and resource profiles.
// The rated sizes are left at zero; the sizing adapter fills them per
// candidate.
func (conf *Configuration) BaseScenario() microgrid.Scenario {
	hours := conf.Profiles.Hours
	load := make([]float64, hours)
	solar := make([]float64, hours)
	wind := make([]float64, hours)

	base := conf.Profiles.BaseLoad
	if base <= 0 {
		base = 0.4 * conf.Profiles.PeakLoad
	}
	for k := 0; k < hours; k++ {
		hourOfDay := float64(k % 24)
		// Daily demand swing peaking in the evening.
		load[k] = base + (conf.Profiles.PeakLoad-base)*
			0.5*(1-math.Cos(2*math.Pi*(hourOfDay-4)/24))
		// Daylight bell between 6h and 18h.
		if hourOfDay >= 6 && hourOfDay <= 18 {
			solar[k] = conf.Profiles.SolarCFMean * math.Pi / 2 *
				math.Sin(math.Pi*(hourOfDay-6)/12)
		}
		// Slow multi-day wind oscillation around the mean.
		wind[k] = conf.Profiles.WindCFMean * (1 + 0.5*math.Sin(2*math.Pi*float64(k)/72))
	}

	return microgrid.Scenario{
		Project: microgrid.Project{
			DiscountRate: conf.Project.DiscountRate,
			Lifetime:     conf.Project.Lifetime,
			Timestep:     conf.Project.Timestep,
			Currency:     conf.Project.Currency,
			Load:         load,
			SolarCF:      solar,
			WindCF:       wind,
		},
		Generator: microgrid.DispatchableGenerator{
			FuelIntercept:   conf.Generator.FuelIntercept,
			FuelSlope:       conf.Generator.FuelSlope,
			FuelPrice:       conf.Generator.FuelPrice,
			InvestmentPrice: conf.Generator.InvestmentPrice,
			OMPriceHours:    conf.Generator.OMPriceHours,
			LifetimeHours:   conf.Generator.LifetimeHours,
			LoadRatioMin:    conf.Generator.LoadRatioMin,
		},
		Battery: microgrid.Battery{
			InvestmentPrice:  conf.Battery.InvestmentPrice,
			OMPrice:          conf.Battery.OMPrice,
			LifetimeCalendar: conf.Battery.LifetimeCalendar,
			LifetimeCycles:   conf.Battery.LifetimeCycles,
			ChargeRateMax:    conf.Battery.ChargeRateMax,
			DischargeRateMax: conf.Battery.DischargeRateMax,
			Loss:             conf.Battery.Loss,
		},
		PV: microgrid.Photovoltaic{
			InvestmentPrice: conf.PV.InvestmentPrice,
			OMPrice:         conf.PV.OMPrice,
			Lifetime:        conf.PV.Lifetime,
			DeratingFactor:  conf.PV.DeratingFactor,
		},
		Wind: microgrid.WindTurbine{
			InvestmentPrice: conf.Wind.InvestmentPrice,
			OMPrice:         conf.Wind.OMPrice,
			Lifetime:        conf.Wind.Lifetime,
		},
	}
}

// algorithmID passes the raw configuration string through; the pipeline
// rejects unknown identifiers with ErrUnsupportedAlgorithm before any
// evaluation.
func algorithmID(s string) opt.AlgorithmID {
	return opt.AlgorithmID(s)
}

// PipelineConfig maps the optimizer section onto the sizing pipeline.
func (conf *Configuration) PipelineConfig() sizing.PipelineConfig {
	return sizing.PipelineConfig{
		Algorithm:   algorithmID(conf.Optimizer.Algorithm),
		MaxEvals:    conf.Optimizer.MaxEvals,
		RelTol:      conf.Optimizer.RelTol,
		Seed:        conf.Optimizer.Seed,
		PolishEvals: conf.Optimizer.PolishEvals,
		Objective: sizing.ObjectiveConfig{
			ShedMax:       conf.Objective.ShedMax,
			PenaltyWeight: conf.Objective.PenaltyWeight,
		},
	}
}
