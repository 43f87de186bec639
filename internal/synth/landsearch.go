package synth

import (
	"math"
	"math/rand/v2"

	"github.com/seqgeo/argplace/internal/landmask"
)

// DefaultLandAttempts bounds the total work per ocean point across the
// local and regional search tiers.
const DefaultLandAttempts = 40

const (
	localRadiusBase = 2.0
	localRadiusStep = 1.5
	candidatesPerAttempt = 4
	regionalTriesPerDraw = 5
	regionSigmaFactor    = 0.4
)

// landSearch relocates geographic points from ocean onto land. It runs
// three tiers per point: a local search spiraling out from the projection,
// a regional resampling weighted by the point's normalized position, and a
// deterministic quadrant fallback that always lands. Points already on land
// are never moved.
type landSearch struct {
	detector landmask.Detector
	regions  []Region
	attempts int
	rng      *rand.Rand
}

func newLandSearch(detector landmask.Detector, regions []Region, attempts int, rng *rand.Rand) *landSearch {
	if attempts <= 0 {
		attempts = DefaultLandAttempts
	}
	if len(regions) == 0 {
		regions = DefaultRegions()
	}
	return &landSearch{detector: detector, regions: regions, attempts: attempts, rng: rng}
}

// place returns a land position for the point. normX/normY is the point's
// pre-projection position in the unit square; the fallback tiers use it so
// relocated points keep their relative arrangement.
func (s *landSearch) place(lon, lat, normX, normY float64) (float64, float64) {
	if s.detector.OnLand(lon, lat) {
		return lon, lat
	}

	if nl, nt, ok := s.localSearch(lon, lat); ok {
		return nl, nt
	}
	if nl, nt, ok := s.regionalSearch(normX, normY); ok {
		return nl, nt
	}
	return s.quadrantFallback(normX, normY)
}

// localSearch spends half the attempt budget probing around the original
// position with a progressively growing radius and four candidate
// strategies per ring.
func (s *landSearch) localSearch(lon, lat float64) (float64, float64, bool) {
	local := s.attempts / 2
	for attempt := 0; attempt < local; attempt++ {
		radius := localRadiusBase + float64(attempt)*localRadiusStep
		for strategy := 0; strategy < candidatesPerAttempt; strategy++ {
			var dx, dy float64
			switch strategy {
			case 0: // random walk
				dx = s.rng.NormFloat64() * radius
				dy = s.rng.NormFloat64() * radius
			case 1: // pull toward the nearest region center
				cx, cy := s.nearestRegionCenter(lon, lat)
				dx = (cx-lon)*0.3 + s.rng.NormFloat64()*radius*0.7
				dy = (cy-lat)*0.3 + s.rng.NormFloat64()*radius*0.7
			case 2: // coastal: wide in longitude, narrow in latitude
				dx = s.rng.NormFloat64() * radius * 2
				dy = s.rng.NormFloat64() * radius * 0.5
			default: // rotating fixed-angle probe
				angle := float64(attempt+strategy) * math.Pi / 4
				dx = radius * math.Cos(angle)
				dy = radius * math.Sin(angle)
			}
			nl := clampLon(lon + dx)
			nt := clampLat(lat + dy)
			if s.detector.OnLand(nl, nt) {
				return nl, nt, true
			}
		}
	}
	return 0, 0, false
}

func (s *landSearch) nearestRegionCenter(lon, lat float64) (float64, float64) {
	best := math.Inf(1)
	var bx, by float64
	for _, r := range s.regions {
		cx, cy := r.Center()
		d := math.Hypot(lon-cx, lat-cy)
		if d < best {
			best = d
			bx, by = cx, cy
		}
	}
	return bx, by
}

// regionalSearch spends the remaining budget drawing Gaussian positions
// inside catalog regions, picked with probability proportional to how close
// each region center sits to the point in normalized space.
func (s *landSearch) regionalSearch(normX, normY float64) (float64, float64, bool) {
	weights := s.regionWeights(normX, normY)
	remaining := s.attempts - s.attempts/2
	for attempt := 0; attempt < remaining; attempt++ {
		r := s.regions[s.pickWeighted(weights)]
		cx, cy := r.Center()
		for try := 0; try < regionalTriesPerDraw; try++ {
			nl := clampLon(cx + s.rng.NormFloat64()*r.RadiusLon*regionSigmaFactor)
			nt := clampLat(cy + s.rng.NormFloat64()*r.RadiusLat*regionSigmaFactor)
			if s.detector.OnLand(nl, nt) {
				return nl, nt, true
			}
		}
	}
	return 0, 0, false
}

// regionWeights scores each region as max(0, 1-d) where d is the distance
// between the point and the region center, both in unit-square coordinates.
// All-zero weights collapse to uniform.
func (s *landSearch) regionWeights(normX, normY float64) []float64 {
	weights := make([]float64, len(s.regions))
	var total float64
	for i, r := range s.regions {
		cx, cy := r.Center()
		nx := (cx - geoLonMin) / geoLonRange
		ny := (cy - geoLatMin) / geoLatRange
		w := 1 - math.Hypot(normX-nx, normY-ny)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

func (s *landSearch) pickWeighted(weights []float64) int {
	u := s.rng.Float64()
	var cum float64
	for i, w := range weights {
		cum += w
		if u < cum {
			return i
		}
	}
	return len(weights) - 1
}

// quadrantFallback places the point uniformly inside a reliable land box
// chosen by its quadrant of the unit square. This tier cannot fail.
func (s *landSearch) quadrantFallback(normX, normY float64) (float64, float64) {
	var lonLo, lonHi, latLo, latHi float64
	switch {
	case normX < 0.25:
		if normY > 0.6 { // Western Europe
			lonLo, lonHi, latLo, latHi = 5, 25, 45, 65
		} else { // Western Africa
			lonLo, lonHi, latLo, latHi = 0, 20, -10, 20
		}
	case normX < 0.5:
		if normY > 0.6 { // Eastern Europe
			lonLo, lonHi, latLo, latHi = 25, 50, 45, 65
		} else { // Central Africa
			lonLo, lonHi, latLo, latHi = 15, 35, -20, 10
		}
	case normX < 0.75:
		if normY > 0.6 { // Central Asia
			lonLo, lonHi, latLo, latHi = 60, 120, 35, 55
		} else { // India and the Middle East
			lonLo, lonHi, latLo, latHi = 50, 90, 10, 35
		}
	default:
		if normY > 0.4 { // East Asia
			lonLo, lonHi, latLo, latHi = 100, 140, 25, 45
		} else { // Australia
			lonLo, lonHi, latLo, latHi = 120, 150, -35, -15
		}
	}
	lon := lonLo + s.rng.Float64()*(lonHi-lonLo)
	lat := latLo + s.rng.Float64()*(latHi-latLo)
	return lon, lat
}
