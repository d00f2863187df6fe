package opt

import "math"

// stagnationTracker watches the best objective value across backend
// iterations and reports when the relative improvement has stayed below a
// tolerance for `patience` consecutive iterations.
type stagnationTracker struct {
	relTol   float64
	patience int
	best     float64
	stale    int
	seen     bool
}

func newStagnationTracker(relTol float64, patience int) *stagnationTracker {
	return &stagnationTracker{
		relTol:   relTol,
		patience: patience,
		best:     math.Inf(1),
	}
}

// update records the iteration's best value and returns true once the search
// has stagnated.
func (t *stagnationTracker) update(best float64) bool {
	if !t.seen {
		t.seen = true
		t.best = best
		return false
	}
	scale := math.Max(1, math.Abs(t.best))
	improvement := t.best - best
	if best < t.best {
		t.best = best
	}
	if improvement >= t.relTol*scale {
		t.stale = 0
		return false
	}
	t.stale++
	return t.stale >= t.patience
}
