package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDetector marks land via a predicate, letting tests force each search
// tier to succeed or fail.
type stubDetector struct {
	onLand func(lon, lat float64) bool
}

func (d stubDetector) OnLand(lon, lat float64) bool { return d.onLand(lon, lat) }
func (d stubDetector) Available() bool              { return true }

func allOcean() stubDetector {
	return stubDetector{onLand: func(lon, lat float64) bool { return false }}
}

func TestPlaceKeepsLandPoints(t *testing.T) {
	calls := 0
	det := stubDetector{onLand: func(lon, lat float64) bool {
		calls++
		return true
	}}
	s := newLandSearch(det, nil, 0, testRNG())

	lon, lat := s.place(20, 10, 0.2, 0.5)
	assert.Equal(t, 20.0, lon)
	assert.Equal(t, 10.0, lat)
	assert.Equal(t, 1, calls)
}

func TestPlaceLocalSearchFindsNearbyLand(t *testing.T) {
	// Land is a band just east of the start point, reachable by the local
	// tier's growing radius.
	det := stubDetector{onLand: func(lon, lat float64) bool {
		return lon >= 25 && lon <= 60
	}}
	s := newLandSearch(det, nil, 0, testRNG())

	lon, lat := s.place(20, 10, 0.2, 0.5)
	assert.GreaterOrEqual(t, lon, 25.0)
	assert.LessOrEqual(t, lon, 60.0)
	assert.GreaterOrEqual(t, lat, geoLatClipLo)
	assert.LessOrEqual(t, lat, geoLatClipHi)
}

func TestPlaceRegionalSearchReachesDistantLand(t *testing.T) {
	// Only the Australia box is land, far outside local-search reach from
	// the west; the regional tier must carry the point there.
	australia := Region{Name: "Australia", Lon: 135, Lat: -25, RadiusLon: 25, RadiusLat: 20}
	det := stubDetector{onLand: australia.Contains}
	s := newLandSearch(det, []Region{australia}, 0, testRNG())

	lon, lat := s.place(-10, 70, 0.02, 0.98)
	assert.True(t, australia.Contains(lon, lat), "got (%g, %g)", lon, lat)
}

func TestPlaceQuadrantFallbackAlwaysLands(t *testing.T) {
	tests := []struct {
		name         string
		normX, normY float64
		lonLo, lonHi float64
		latLo, latHi float64
	}{
		{name: "northwest", normX: 0.1, normY: 0.9, lonLo: 5, lonHi: 25, latLo: 45, latHi: 65},
		{name: "southwest", normX: 0.1, normY: 0.1, lonLo: 0, lonHi: 20, latLo: -10, latHi: 20},
		{name: "second quarter north", normX: 0.4, normY: 0.9, lonLo: 25, lonHi: 50, latLo: 45, latHi: 65},
		{name: "second quarter south", normX: 0.4, normY: 0.1, lonLo: 15, lonHi: 35, latLo: -20, latHi: 10},
		{name: "third quarter north", normX: 0.6, normY: 0.9, lonLo: 60, lonHi: 120, latLo: 35, latHi: 55},
		{name: "third quarter south", normX: 0.6, normY: 0.1, lonLo: 50, lonHi: 90, latLo: 10, latHi: 35},
		{name: "east north", normX: 0.9, normY: 0.5, lonLo: 100, lonHi: 140, latLo: 25, latHi: 45},
		{name: "east south", normX: 0.9, normY: 0.2, lonLo: 120, lonHi: 150, latLo: -35, latHi: -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newLandSearch(allOcean(), nil, 4, testRNG())
			lon, lat := s.place(0, 0, tt.normX, tt.normY)
			assert.GreaterOrEqual(t, lon, tt.lonLo)
			assert.LessOrEqual(t, lon, tt.lonHi)
			assert.GreaterOrEqual(t, lat, tt.latLo)
			assert.LessOrEqual(t, lat, tt.latHi)
		})
	}
}

func TestRegionWeights(t *testing.T) {
	s := newLandSearch(allOcean(), DefaultRegions(), 0, testRNG())

	// A point at the normalized center of Africa weighs Africa highest.
	africaLon, africaLat := DefaultRegions()[0].Center()
	nx := (africaLon - geoLonMin) / geoLonRange
	ny := (africaLat - geoLatMin) / geoLatRange
	weights := s.regionWeights(nx, ny)
	require.Len(t, weights, 7)

	best := 0
	for i, w := range weights {
		if w > weights[best] {
			best = i
		}
	}
	assert.Equal(t, "Africa", s.regions[best].Name)

	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestRegionWeightsAllZeroFallsBackToUniform(t *testing.T) {
	// A single region whose center is farther than distance 1 from the
	// query point in normalized space scores zero; the weights then
	// collapse to uniform rather than dividing by zero.
	far := Region{Name: "Far", Lon: 170, Lat: 65, RadiusLon: 5, RadiusLat: 5}
	s := newLandSearch(allOcean(), []Region{far}, 0, testRNG())

	weights := s.regionWeights(0, 0)
	require.Len(t, weights, 1)
	assert.Equal(t, 1.0, weights[0])
}

func TestPickWeightedRespectsDistribution(t *testing.T) {
	s := newLandSearch(allOcean(), DefaultRegions(), 0, testRNG())
	weights := []float64{0, 1, 0, 0, 0, 0, 0}
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, s.pickWeighted(weights))
	}
}
