package microgrid

// OperationStats aggregates the operational outcome of one simulated year.
type OperationStats struct {
	// Load statistics
	ServedEnergy    float64 `json:"servedEnergy"`    // energy served to the load (kWh/y)
	ShedEnergy      float64 `json:"shedEnergy"`      // energy not served to the load (kWh/y)
	ShedMax         float64 `json:"shedMax"`         // maximum load shedding power (kW)
	ShedHours       float64 `json:"shedHours"`       // cumulated duration of load shedding (h/y)
	ShedDurationMax float64 `json:"shedDurationMax"` // longest consecutive shedding event (h)
	ShedRate        float64 `json:"shedRate"`        // shed energy over desired load energy, in [0,1]

	// Dispatchable generator statistics
	GenHours float64 `json:"genHours"` // cumulated generator operating hours (h/y)
	GenFuel  float64 `json:"genFuel"`  // fuel consumption (L/y)

	// Energy storage statistics
	StorageCycles     float64 `json:"storageCycles"`     // cumulated cycling (cycles/y)
	StorageThroughput float64 `json:"storageThroughput"` // energy throughput in and out (kWh/y)

	// Non-dispatchable (renewable) sources statistics
	SpilledEnergy        float64 `json:"spilledEnergy"`        // curtailed renewable energy (kWh/y)
	SpilledMax           float64 `json:"spilledMax"`           // maximum spilled power (kW)
	SpilledRate          float64 `json:"spilledRate"`          // spilled over renewable potential, in [0,1]
	RenewPotentialEnergy float64 `json:"renewPotentialEnergy"` // renewable energy absent spillage (kWh/y)
	RenewEnergy          float64 `json:"renewEnergy"`          // renewable energy actually supplied (kWh/y)
	RenewRate            float64 `json:"renewRate"`            // renewable share of served energy, in [0,1]
}

// CostStats aggregates the economic outcome of one simulation over the
// project lifetime.
type CostStats struct {
	LCOE           float64 `json:"lcoe"`           // levelized cost of electricity (currency/kWh); NaN when no energy is delivered
	NPC            float64 `json:"npc"`            // net present cost (currency)
	AnnualizedCost float64 `json:"annualizedCost"` // total annualized cost (currency/y)
	Investment     float64 `json:"investment"`     // total initial investment (currency)
}
