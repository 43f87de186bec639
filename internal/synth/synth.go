// Package synth turns pairwise genealogical distances into spatial sample
// coordinates: a distance matrix is embedded into the plane, normalized,
// projected into the requested CRS, and, for geographic output, coaxed onto
// land. Every internal failure degrades to a coarser placement; only
// malformed caller input returns an error.
package synth

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/seqgeo/argplace/internal/landmask"
	"github.com/seqgeo/argplace/internal/model"
)

// randomFallbackSpan is the side of the square used when the embedding
// itself fails and positions are drawn uniformly at random.
const randomFallbackSpan = 10.0

// DefaultMinSamples is the smallest sample count synthesis operates on.
// Below it there is no pairwise structure to embed.
const DefaultMinSamples = 2

// Options tunes a synthesis run. The zero value gives unit-grid output with
// the default iteration budgets and no land constraint.
type Options struct {
	CRS model.CRS

	// Seed fixes the run's randomness; nil draws a fresh seed.
	Seed *int64

	// MinSamples is the threshold below which Synthesize is a no-op;
	// DefaultMinSamples (and never less than 2) when zero.
	MinSamples int

	// Detector constrains geographic output to land. Nil or unavailable
	// detectors disable the constraint instead of failing.
	Detector landmask.Detector

	// Regions overrides the landmass catalog used by the land search.
	Regions []Region

	MDSMaxIterations int
	MDSRestarts      int
	DistanceFallback float64
	LandAttempts     int

	UnitGridMargin  float64
	UnitGridNoise   float64
	GeographicNoise float64
	MercatorNoise   float64
}

// Synthesize produces one coordinate per sample, in sample order. The dist
// oracle is consulted for every pair; oracle errors degrade to the fallback
// distance while malformed oracle values return ErrInvalidInput. Sample
// lists below the minimum threshold are a no-op: nil result, nil error.
func Synthesize(samples []model.Sample, dist DistanceFunc, opts Options) ([]model.SampleCoordinate, error) {
	minSamples := opts.MinSamples
	if minSamples < DefaultMinSamples {
		minSamples = DefaultMinSamples
	}
	if len(samples) < minSamples {
		zap.L().Info("too few samples, skipping synthesis",
			zap.String("component", "synth"),
			zap.Int("samples", len(samples)),
			zap.Int("min", minSamples),
		)
		return nil, nil
	}

	d, err := BuildDistanceMatrix(samples, dist, opts.DistanceFallback)
	if err != nil {
		return nil, err
	}

	seed := rand.Int64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 1))
	log := zap.L().With(zap.String("component", "synth"))

	embedder := &SMACOFEmbedder{
		MaxIterations: opts.MDSMaxIterations,
		Restarts:      opts.MDSRestarts,
	}
	points, err := embedder.Fit(d, seed)
	if err != nil {
		log.Warn("embedding failed, using random layout", zap.Error(err))
		points = make([][2]float64, len(samples))
		for i := range points {
			points[i][0] = rng.Float64() * randomFallbackSpan
			points[i][1] = rng.Float64() * randomFallbackSpan
		}
	}

	norm := Normalize(points)

	crs, _ := model.ParseCRS(string(opts.CRS))
	coords := project(crs, norm, projectionConfig{
		UnitGridMargin:  opts.UnitGridMargin,
		UnitGridNoise:   opts.UnitGridNoise,
		GeographicNoise: opts.GeographicNoise,
		MercatorNoise:   opts.MercatorNoise,
	}, rng)

	if crs == model.CRSGeographic {
		if opts.Detector == nil || !opts.Detector.Available() {
			// Not a search failure: there is no oracle to search against,
			// so projected positions pass through unchanged.
			log.Warn("land detector unavailable, skipping land constraint",
				zap.Int("samples", len(samples)))
		} else {
			search := newLandSearch(opts.Detector, opts.Regions, opts.LandAttempts, rng)
			var moved int
			for i := range coords {
				lon, lat := search.place(coords[i].X, coords[i].Y, norm[i][0], norm[i][1])
				if lon != coords[i].X || lat != coords[i].Y {
					moved++
				}
				coords[i].X, coords[i].Y = lon, lat
			}
			if moved > 0 {
				log.Debug("relocated ocean points onto land", zap.Int("moved", moved))
			}
		}
	}

	out := make([]model.SampleCoordinate, len(samples))
	for i, s := range samples {
		out[i] = model.SampleCoordinate{Sample: s, Coordinate: coords[i]}
	}
	log.Info("synthesized coordinates",
		zap.Int("samples", len(samples)),
		zap.String("crs", string(crs)),
		zap.Int64("seed", seed),
	)
	return out, nil
}
