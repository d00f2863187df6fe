package opt

import (
	"math"
	"sort"
)

// directBackend implements the DIRECT (DIviding RECTangles) space-partitioning
// search of Jones, Perttunen and Stuckman. The box is normalized to the unit
// hypercube; hyperrectangles are trisected along their longest sides, and each
// iteration evaluates the centers of the children of every potentially optimal
// rectangle. The method is fully deterministic: identical bounds, budget and
// tolerance reproduce the run bit for bit.
type directBackend struct {
	maxEvals int
	relTol   float64
}

// Balance parameter of the potentially-optimal test; the standard value from
// the DIRECT literature.
const directEpsilon = 1e-4

// Iterations without significant improvement before the search is declared
// stagnant.
const directPatience = 3

func newDirect(o Options) *directBackend {
	return &directBackend{maxEvals: o.MaxEvals, relTol: o.RelTol}
}

// rect is one hyperrectangle of the partition, in normalized coordinates.
type rect struct {
	center []float64
	half   []float64 // half side length per dimension
	f      float64
}

// size is the rectangle's selection measure: half the length of its longest
// side.
func (r *rect) size() float64 {
	var m float64
	for _, h := range r.half {
		if h > m {
			m = h
		}
	}
	return m
}

func (d *directBackend) Run(eval Objective, b Bounds) (Result, error) {
	dim := b.Dim()
	evalCenter := func(c []float64) float64 {
		return eval(denormalize(c, b))
	}

	root := &rect{
		center: uniform(dim, 0.5),
		half:   uniform(dim, 0.5),
	}
	root.f = evalCenter(root.center)
	rects := []*rect{root}
	evals := 1

	bestF := root.f
	bestX := append([]float64(nil), root.center...)

	tracker := newStagnationTracker(d.relTol, directPatience)
	converged := false

	for evals < d.maxEvals {
		selected := potentiallyOptimal(rects, bestF)

		for _, ri := range selected {
			children, n := trisect(rects[ri], evalCenter)
			evals += n
			rects = append(rects, children...)
		}
		for _, r := range rects {
			if r.f < bestF {
				bestF = r.f
				bestX = append([]float64(nil), r.center...)
			}
		}

		if tracker.update(bestF) {
			converged = true
			break
		}
	}

	reason := EvalBudgetExhausted
	if converged {
		reason = Converged
	}
	return Result{
		X:           denormalize(bestX, b),
		F:           bestF,
		Evaluations: evals,
		Reason:      reason,
	}, nil
}

// potentiallyOptimal returns the indices of rectangles on the lower-right
// convex hull of the (size, f) cloud: for each size class the rectangle with
// the lowest center value, filtered so that every survivor could improve on
// the incumbent by at least epsilon under some Lipschitz constant.
func potentiallyOptimal(rects []*rect, bestF float64) []int {
	// Best rectangle per size class, stable on first occurrence.
	bySize := map[float64]int{}
	for i, r := range rects {
		s := r.size()
		j, ok := bySize[s]
		if !ok || r.f < rects[j].f {
			bySize[s] = i
		}
	}
	sizes := make([]float64, 0, len(bySize))
	for s := range bySize {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)

	// Lower convex hull over increasing size.
	hull := []int{}
	for _, s := range sizes {
		i := bySize[s]
		for len(hull) >= 2 {
			a, b := rects[hull[len(hull)-2]], rects[hull[len(hull)-1]]
			c := rects[i]
			// Drop b if it lies above the segment a-c.
			if cross(a.size(), a.f, b.size(), b.f, c.size(), c.f) <= 0 {
				hull = hull[:len(hull)-1]
			} else {
				break
			}
		}
		hull = append(hull, i)
	}

	// Epsilon test: a hull rectangle must admit a Lipschitz constant under
	// which its lower bound beats the incumbent by a nontrivial margin.
	threshold := bestF - directEpsilon*math.Max(1, math.Abs(bestF))
	out := make([]int, 0, len(hull))
	for k, i := range hull {
		r := rects[i]
		if math.IsInf(r.f, 1) {
			continue
		}
		// Slope to the next larger hull rectangle bounds the usable
		// Lipschitz constant from below.
		slope := 0.0
		if k+1 < len(hull) {
			next := rects[hull[k+1]]
			if ds := next.size() - r.size(); ds > 0 {
				slope = (r.f - next.f) / ds
			}
		}
		if r.f-slope*r.size() <= threshold || k == len(hull)-1 {
			out = append(out, i)
		}
	}
	if len(out) == 0 && len(hull) > 0 {
		// Always subdivide at least the largest rectangle so the search
		// cannot silently stall.
		out = append(out, hull[len(hull)-1])
	}
	return out
}

// trisect splits r along all of its longest dimensions, evaluating the two
// new centers per dimension first and then dividing in order of best child
// value, per the original DIRECT splitting rule. It mutates r into the middle
// child and returns the newly created rectangles plus the evaluation count.
func trisect(r *rect, evalCenter func([]float64) float64) ([]*rect, int) {
	longest := r.size()
	dims := []int{}
	for i, h := range r.half {
		if h == longest {
			dims = append(dims, i)
		}
	}

	type probe struct {
		dim        int
		lo, hi     *rect
		bestOfPair float64
	}
	probes := make([]probe, 0, len(dims))
	evals := 0
	for _, i := range dims {
		delta := 2.0 / 3.0 * r.half[i]
		lo := &rect{center: shifted(r.center, i, -delta)}
		hi := &rect{center: shifted(r.center, i, +delta)}
		lo.f = evalCenter(lo.center)
		hi.f = evalCenter(hi.center)
		evals += 2
		probes = append(probes, probe{dim: i, lo: lo, hi: hi, bestOfPair: math.Min(lo.f, hi.f)})
	}

	sort.SliceStable(probes, func(a, b int) bool {
		return probes[a].bestOfPair < probes[b].bestOfPair
	})

	// Divide in rank order: the pair split off along the k-th ranked
	// dimension inherits the narrowing of the dimensions ranked before it,
	// so the best-ranked dimension keeps the widest children, exactly as in
	// the reference algorithm. The parent shrinks into the middle cell.
	children := make([]*rect, 0, 2*len(probes))
	for _, p := range probes {
		r.half[p.dim] /= 3
		p.lo.half = append([]float64(nil), r.half...)
		p.hi.half = append([]float64(nil), r.half...)
		children = append(children, p.lo, p.hi)
	}

	return children, evals
}

func cross(x1, y1, x2, y2, x3, y3 float64) float64 {
	return (x2-x1)*(y3-y1) - (y2-y1)*(x3-x1)
}

func uniform(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func shifted(x []float64, dim int, delta float64) []float64 {
	y := append([]float64(nil), x...)
	y[dim] += delta
	return y
}
