package synth

import "math"

// Normalize rescales an embedding into the unit square by independent
// per-axis min-max. A degenerate axis (zero spread, or non-finite bounds
// from a diverged embedding) collapses to its midpoint 0.5, so the result
// is always inside [0,1]^2.
func Normalize(points [][2]float64) [][2]float64 {
	out := make([][2]float64, len(points))
	if len(points) == 0 {
		return out
	}

	for axis := 0; axis < 2; axis++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range points {
			v := p[axis]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		span := hi - lo
		degenerate := span <= 0 || math.IsNaN(span) || math.IsInf(span, 0)
		for i, p := range points {
			if degenerate {
				out[i][axis] = 0.5
				continue
			}
			out[i][axis] = (p[axis] - lo) / span
		}
	}
	return out
}
