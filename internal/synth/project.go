package synth

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/seqgeo/argplace/internal/model"
)

// Unit grid projection bounds.
const (
	DefaultUnitGridMargin = 0.05
	DefaultUnitGridNoise  = 0.02
	unitGridClipLo        = 0.01
	unitGridClipHi        = 0.99
)

// Geographic projection covers the extended Eastern Hemisphere and excludes
// Antarctica by stopping at 60°S.
const (
	geoLonMin   = -15.0
	geoLonRange = 195.0
	geoLatMin   = -60.0
	geoLatRange = 135.0

	geoLonClipLo = -14.0
	geoLonClipHi = 179.0
	geoLatClipLo = -59.0
	geoLatClipHi = 74.0

	DefaultGeographicNoise = 2.0
)

// Web Mercator projection spans a centered pseudo-world extent; the Y range
// is held narrower than X for a realistic spread.
const (
	mercatorXRange = 20000000.0
	mercatorYRange = 15000000.0

	mercatorXClip = 19000000.0
	mercatorYClip = 14000000.0

	DefaultMercatorNoise = 100000.0
)

// projectionConfig carries the tunable jitter parameters; zero values fall
// back to the defaults above.
type projectionConfig struct {
	UnitGridMargin  float64
	UnitGridNoise   float64
	GeographicNoise float64
	MercatorNoise   float64
}

func (c projectionConfig) withDefaults() projectionConfig {
	if c.UnitGridMargin <= 0 {
		c.UnitGridMargin = DefaultUnitGridMargin
	}
	if c.UnitGridNoise <= 0 {
		c.UnitGridNoise = DefaultUnitGridNoise
	}
	if c.GeographicNoise <= 0 {
		c.GeographicNoise = DefaultGeographicNoise
	}
	if c.MercatorNoise <= 0 {
		c.MercatorNoise = DefaultMercatorNoise
	}
	return c
}

// project maps normalized unit-square points into the target CRS, adding
// Gaussian jitter and clipping back inside the CRS bounds. An unrecognized
// CRS falls back to the unit grid.
func project(crs model.CRS, norm [][2]float64, cfg projectionConfig, rng *rand.Rand) []model.Coordinate {
	cfg = cfg.withDefaults()
	switch crs {
	case model.CRSUnitGrid:
		return projectUnitGrid(norm, cfg, rng)
	case model.CRSGeographic:
		return projectGeographic(norm, cfg, rng)
	case model.CRSWebMercator:
		return projectWebMercator(norm, cfg, rng)
	default:
		zap.L().Warn("unknown CRS, defaulting to unit grid",
			zap.String("component", "synth.project"),
			zap.String("crs", string(crs)),
		)
		return projectUnitGrid(norm, cfg, rng)
	}
}

func projectUnitGrid(norm [][2]float64, cfg projectionConfig, rng *rand.Rand) []model.Coordinate {
	span := 1.0 - 2*cfg.UnitGridMargin
	out := make([]model.Coordinate, len(norm))
	for i, p := range norm {
		x := p[0]*span + cfg.UnitGridMargin + rng.NormFloat64()*cfg.UnitGridNoise
		y := p[1]*span + cfg.UnitGridMargin + rng.NormFloat64()*cfg.UnitGridNoise
		out[i] = model.Coordinate{
			X: clamp(x, unitGridClipLo, unitGridClipHi),
			Y: clamp(y, unitGridClipLo, unitGridClipHi),
		}
	}
	return out
}

func projectGeographic(norm [][2]float64, cfg projectionConfig, rng *rand.Rand) []model.Coordinate {
	out := make([]model.Coordinate, len(norm))
	for i, p := range norm {
		lon := p[0]*geoLonRange + geoLonMin + rng.NormFloat64()*cfg.GeographicNoise
		lat := p[1]*geoLatRange + geoLatMin + rng.NormFloat64()*cfg.GeographicNoise
		out[i] = model.Coordinate{
			X: clampLon(lon),
			Y: clampLat(lat),
		}
	}
	return out
}

func projectWebMercator(norm [][2]float64, cfg projectionConfig, rng *rand.Rand) []model.Coordinate {
	out := make([]model.Coordinate, len(norm))
	for i, p := range norm {
		x := (p[0]-0.5)*2*mercatorXRange + rng.NormFloat64()*cfg.MercatorNoise
		y := (p[1]-0.5)*2*mercatorYRange + rng.NormFloat64()*cfg.MercatorNoise
		out[i] = model.Coordinate{
			X: clamp(x, -mercatorXClip, mercatorXClip),
			Y: clamp(y, -mercatorYClip, mercatorYClip),
		}
	}
	return out
}

func clampLon(v float64) float64 { return clamp(v, geoLonClipLo, geoLonClipHi) }
func clampLat(v float64) float64 { return clamp(v, geoLatClipLo, geoLatClipHi) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
