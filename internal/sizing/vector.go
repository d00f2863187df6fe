// Package sizing is the optimization core: it maps a sizing vector to
// simulator inputs, reduces simulator outputs to the optimization criteria,
// turns the constrained bi-criterion into a penalized scalar objective, and
// chains global search, local polish and final reporting.
package sizing

import "math"

// Variable describes one decision variable of the sizing problem, including
// the fixed multiplicative scaling from optimizer units to simulator units.
type Variable struct {
	Name    string
	OptUnit string
	SimUnit string
	Scale   float64
}

// Variables is the fixed set of sizable components, in vector order.
var Variables = []Variable{
	{Name: "generator_power", OptUnit: "MW", SimUnit: "kW", Scale: 1000},
	{Name: "battery_energy", OptUnit: "MWh", SimUnit: "kWh", Scale: 1000},
	{Name: "pv_power", OptUnit: "MW", SimUnit: "kW", Scale: 1000},
	{Name: "wind_power", OptUnit: "MW", SimUnit: "kW", Scale: 1000},
}

// Dim is the dimensionality of the sizing problem.
func Dim() int { return len(Variables) }

// Vector is one candidate sizing in optimizer units (MW / MWh). Instances are
// created transiently per candidate evaluation; only the best is retained.
type Vector []float64

// ToSimulatorUnits applies each variable's fixed scale factor.
func (v Vector) ToSimulatorUnits() []float64 {
	scaled := make([]float64, len(v))
	for i, val := range v {
		scaled[i] = val * Variables[i].Scale
	}
	return scaled
}

// IsFinite reports whether every component is a finite number.
func (v Vector) IsFinite() bool {
	for _, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return false
		}
	}
	return true
}

// Named returns the vector as a name-to-value map in optimizer units.
func (v Vector) Named() map[string]float64 {
	m := make(map[string]float64, len(v))
	for i, val := range v {
		if i < len(Variables) {
			m[Variables[i].Name] = val
		}
	}
	return m
}
