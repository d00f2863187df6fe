package sizing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBounds marks a malformed search space. It is raised before any
// simulation happens and is not recoverable.
var ErrInvalidBounds = errors.New("invalid search space bounds")

// Space owns the per-variable bounds and the initial point of one
// optimization run. It is immutable for the run's duration.
//
// Sizes are non-negative, and variables whose zero value makes simulator
// economics undefined (a zero-sized battery breaks the cycle-count ratio)
// keep a small strictly positive lower bound instead of zero.
type Space struct {
	Lower   []float64
	Upper   []float64
	Initial []float64
}

// NewSpace validates the (lower, upper, initial) triples and returns the
// search space.
func NewSpace(lower, upper, initial []float64) (*Space, error) {
	n := len(lower)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty bounds", ErrInvalidBounds)
	}
	if len(upper) != n || len(initial) != n {
		return nil, fmt.Errorf("%w: dimension mismatch (lower=%d upper=%d initial=%d)",
			ErrInvalidBounds, n, len(upper), len(initial))
	}
	for i := 0; i < n; i++ {
		for _, v := range []float64{lower[i], upper[i], initial[i]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite value at variable %d", ErrInvalidBounds, i)
			}
		}
		if lower[i] < 0 {
			return nil, fmt.Errorf("%w: negative lower bound %g at variable %d",
				ErrInvalidBounds, lower[i], i)
		}
		if lower[i] > upper[i] {
			return nil, fmt.Errorf("%w: lower %g exceeds upper %g at variable %d",
				ErrInvalidBounds, lower[i], upper[i], i)
		}
		if initial[i] < lower[i] || initial[i] > upper[i] {
			return nil, fmt.Errorf("%w: initial %g outside [%g, %g] at variable %d",
				ErrInvalidBounds, initial[i], lower[i], upper[i], i)
		}
	}
	return &Space{
		Lower:   append([]float64(nil), lower...),
		Upper:   append([]float64(nil), upper...),
		Initial: append([]float64(nil), initial...),
	}, nil
}

// Dim returns the dimensionality of the space.
func (s *Space) Dim() int { return len(s.Lower) }

// Clip projects x onto the bounds component-wise. Backends are expected to
// respect bounds already; this is the defensive projection applied before a
// vector reaches the simulator.
func (s *Space) Clip(x Vector) Vector {
	y := make(Vector, len(x))
	for i, v := range x {
		y[i] = math.Max(s.Lower[i], math.Min(s.Upper[i], v))
	}
	return y
}
