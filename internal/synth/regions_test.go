package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegions(t *testing.T) {
	regions := DefaultRegions()
	require.Len(t, regions, 7)

	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name
		assert.Positive(t, r.RadiusLon, r.Name)
		assert.Positive(t, r.RadiusLat, r.Name)
	}
	assert.Contains(t, names, "Africa")
	assert.Contains(t, names, "Australia")

	// Centers are the catalog anchors themselves, not box corners.
	anchors := map[string][2]float64{
		"Africa":    {10, 0},
		"Europe":    {40, 50},
		"Asia":      {100, 35},
		"India":     {80, 15},
		"Australia": {135, -25},
		"Arabia":    {45, 25},
		"East_Asia": {130, 35},
	}
	for _, r := range regions {
		lon, lat := r.Center()
		want := anchors[r.Name]
		assert.Equal(t, want[0], lon, r.Name)
		assert.Equal(t, want[1], lat, r.Name)
	}
}

func TestRegionCenterContains(t *testing.T) {
	r := Region{Name: "Arabia", Lon: 45, Lat: 25, RadiusLon: 15, RadiusLat: 10}

	lon, lat := r.Center()
	assert.Equal(t, 45.0, lon)
	assert.Equal(t, 25.0, lat)

	assert.True(t, r.Contains(lon, lat))
	assert.True(t, r.Contains(30, 15))
	assert.True(t, r.Contains(60, 35))
	assert.False(t, r.Contains(29.9, 25))
	assert.False(t, r.Contains(45, 35.1))
}

func TestLoadRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	data := `
- name: Testland
  lon: 10
  lat: -5
  radius_lon: 20
  radius_lat: 15
- name: Otherland
  lon: 100
  lat: 40
  radius_lon: 30
  radius_lat: 10
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	regions, err := LoadRegions(path)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "Testland", regions[0].Name)
	assert.Equal(t, 20.0, regions[0].RadiusLon)
}

func TestLoadRegionsErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty catalog", data: "[]\n"},
		{name: "bad yaml", data: "{{{\n"},
		{name: "zero radius", data: "- name: Flat\n  lon: 0\n  lat: 0\n  radius_lon: 0\n  radius_lat: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := LoadRegions(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadRegions(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
