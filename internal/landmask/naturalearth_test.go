package landmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestRuleOnLandKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     bool
	}{
		{name: "central Europe", lon: 10, lat: 50, want: true},
		{name: "western Africa", lon: 5, lat: 10, want: true},
		{name: "central Asia", lon: 90, lat: 45, want: true},
		{name: "Australia", lon: 135, lat: -25, want: true},
		{name: "Madagascar", lon: 47, lat: -20, want: true},
		{name: "Sri Lanka", lon: 80, lat: 7, want: true},
		{name: "Japan", lon: 138, lat: 36, want: true},
		{name: "Arabian peninsula", lon: 45, lat: 22, want: true},
		{name: "mid Atlantic", lon: -30, lat: 0, want: false},
		{name: "southern Indian Ocean", lon: 85, lat: -40, want: false},
		{name: "Bay of Bengal", lon: 88, lat: 12, want: false},
		// The coarse Africa box extends to lon 65 / lat 40 and is checked
		// before the Gulf carve-outs, so the Persian Gulf counts as land.
		{name: "Persian Gulf swallowed by Africa box", lon: 52, lat: 26, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleOnLand(tt.lon, tt.lat))
		})
	}
}

func TestArchipelagoRuleDeterministic(t *testing.T) {
	// Acceptance is a pure function of the point: repeated queries agree,
	// and roughly 70% of the probed area is accepted. The grid sits in the
	// slice of the archipelago box no earlier rule claims (west of the
	// Australia box, south of the Southeast Asia box).
	accepted := 0
	total := 0
	for lon := 90.2; lon < 110; lon += 0.4 {
		for lat := -14.8; lat < -10; lat += 0.4 {
			first := ruleOnLand(lon, lat)
			assert.Equal(t, first, ruleOnLand(lon, lat), "(%g, %g)", lon, lat)
			if first {
				accepted++
			}
			total++
		}
	}
	frac := float64(accepted) / float64(total)
	assert.Greater(t, frac, 0.6)
	assert.Less(t, frac, 0.8)
}

func TestOnLandRejectsAntarctica(t *testing.T) {
	d := NewNaturalEarth(t.TempDir())
	assert.False(t, d.OnLand(60, -70))
	assert.False(t, d.OnLand(0, -61))
}

func TestRuleFallbackWhenShapefileMissing(t *testing.T) {
	d := NewNaturalEarth(t.TempDir())
	assert.True(t, d.Available())
	assert.True(t, d.OnLand(10, 50)) // central Europe via rules
	assert.False(t, d.OnLand(-30, 0))
}

func TestWithoutRuleFallbackUnavailable(t *testing.T) {
	d := NewNaturalEarth(t.TempDir(), WithoutRuleFallback())
	assert.False(t, d.Available())
	assert.False(t, d.OnLand(10, 50))
}

func TestMultiPolygonContains(t *testing.T) {
	// Unit square from (0,0) to (10,10).
	mp := geom.NewMultiPolygon(geom.XY)
	ring := geom.NewLinearRingFlat(geom.XY, []float64{0, 0, 10, 0, 10, 10, 0, 10, 0, 0})
	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(ring); err != nil {
		t.Fatal(err)
	}
	if err := mp.Push(poly); err != nil {
		t.Fatal(err)
	}

	assert.True(t, multiPolygonContains(mp, 5, 5))
	assert.False(t, multiPolygonContains(mp, 15, 5))
	assert.False(t, multiPolygonContains(mp, -1, -1))
}

func TestDecodeAttr(t *testing.T) {
	assert.Equal(t, "Land", decodeAttr("Land"))
	assert.Equal(t, "Land", decodeAttr("  Land  "))
	// CP1252 0xE9 is e-acute.
	assert.Equal(t, "café", decodeAttr("caf\xe9"))
}
