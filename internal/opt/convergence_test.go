package opt

import "testing"

func TestStagnationTrackerStopsAfterPatience(t *testing.T) {
	tr := newStagnationTracker(1e-3, 3)

	if tr.update(100) {
		t.Fatal("First observation must never stagnate")
	}
	// Large improvements keep the tracker alive.
	if tr.update(50) || tr.update(25) {
		t.Fatal("Significant improvement counted as stagnation")
	}
	// Three consecutive insignificant changes trip it.
	if tr.update(24.999) {
		t.Fatal("Stagnated after one stale iteration, patience is 3")
	}
	if tr.update(24.999) {
		t.Fatal("Stagnated after two stale iterations, patience is 3")
	}
	if !tr.update(24.999) {
		t.Fatal("Expected stagnation after three stale iterations")
	}
}

func TestStagnationTrackerResetsOnImprovement(t *testing.T) {
	tr := newStagnationTracker(1e-3, 2)

	tr.update(10)
	tr.update(10) // stale 1
	if tr.update(5) {
		t.Fatal("Improvement must reset the stale count")
	}
	tr.update(5) // stale 1
	if !tr.update(5) {
		t.Fatal("Expected stagnation after patience exhausted")
	}
}
