package synth

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/seqgeo/argplace/internal/model"
)

// DistanceFunc returns the genealogical distance between two samples. A
// returned error means the pair could not be resolved and is absorbed via
// the fallback distance; a returned negative or non-finite value is treated
// as malformed input and aborts the build.
type DistanceFunc func(a, b model.Sample) (float64, error)

// DefaultDistanceFallback substitutes for pairs the oracle cannot resolve,
// placing them as maximally unrelated.
const DefaultDistanceFallback = 1000.0

// BuildDistanceMatrix queries dist for every unordered sample pair and
// assembles a symmetric matrix with zero diagonal. Both orientations of each
// pair are queried and averaged, guarding against asymmetric oracles. The
// result is always completely filled and finite.
func BuildDistanceMatrix(samples []model.Sample, dist DistanceFunc, fallback float64) (*mat.SymDense, error) {
	n := len(samples)
	if n < 2 {
		return nil, eris.Wrapf(ErrInvalidInput, "need at least 2 samples, got %d", n)
	}
	if dist == nil {
		return nil, eris.Wrap(ErrInvalidInput, "nil distance function")
	}
	if fallback <= 0 {
		fallback = DefaultDistanceFallback
	}

	log := zap.L().With(zap.String("component", "synth.distance"))

	d := mat.NewSymDense(n, nil)
	var fallbacks int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dij, err := queryDistance(samples[i], samples[j], dist, fallback, &fallbacks)
			if err != nil {
				return nil, err
			}
			dji, err := queryDistance(samples[j], samples[i], dist, fallback, &fallbacks)
			if err != nil {
				return nil, err
			}
			d.SetSym(i, j, (dij+dji)/2)
		}
	}

	if fallbacks > 0 {
		log.Debug("distance oracle fallbacks substituted",
			zap.Int("pairs", fallbacks),
			zap.Float64("fallback", fallback),
		)
	}
	return d, nil
}

// queryDistance performs one oracle call: errors absorb into the fallback,
// but a successfully returned malformed value is a hard input error.
func queryDistance(a, b model.Sample, dist DistanceFunc, fallback float64, fallbacks *int) (float64, error) {
	v, err := dist(a, b)
	if err != nil {
		*fallbacks++
		return fallback, nil
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrapf(ErrInvalidInput, "distance oracle returned %g for pair (%s, %s)", v, a, b)
	}
	return v, nil
}
