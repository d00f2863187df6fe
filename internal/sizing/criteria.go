package sizing

import "github.com/offgridlab/gridsizer/internal/microgrid"

// Criteria is the bi-criterion view of one simulation: the cost to minimize
// and the reliability constraint.
type Criteria struct {
	LCOE     float64 `json:"lcoe"`
	ShedRate float64 `json:"shedRate"`
}

// ExtractCriteria projects the full simulator statistics onto the two scalars
// the optimization cares about. Non-finite values (an undefined LCOE when no
// energy is delivered) propagate unchanged; they are signal, not noise.
func ExtractCriteria(ops microgrid.OperationStats, costs microgrid.CostStats) Criteria {
	return Criteria{
		LCOE:     costs.LCOE,
		ShedRate: ops.ShedRate,
	}
}
