package synth

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Region is a rectangular landmass anchor in geographic coordinates,
// described by its center and a degree radius along each axis.
type Region struct {
	Name      string  `yaml:"name"`
	Lon       float64 `yaml:"lon"`
	Lat       float64 `yaml:"lat"`
	RadiusLon float64 `yaml:"radius_lon"`
	RadiusLat float64 `yaml:"radius_lat"`
}

// Center returns the region's anchor point.
func (r Region) Center() (lon, lat float64) {
	return r.Lon, r.Lat
}

// Contains reports whether the point lies inside the region box.
func (r Region) Contains(lon, lat float64) bool {
	return lon >= r.Lon-r.RadiusLon && lon <= r.Lon+r.RadiusLon &&
		lat >= r.Lat-r.RadiusLat && lat <= r.Lat+r.RadiusLat
}

// DefaultRegions is the built-in catalog of major landmasses used to steer
// ocean points toward land. Boxes overlap deliberately; overlap only ever
// increases the chance a candidate lands.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Africa", Lon: 10, Lat: 0, RadiusLon: 25, RadiusLat: 35},
		{Name: "Europe", Lon: 40, Lat: 50, RadiusLon: 30, RadiusLat: 20},
		{Name: "Asia", Lon: 100, Lat: 35, RadiusLon: 40, RadiusLat: 25},
		{Name: "India", Lon: 80, Lat: 15, RadiusLon: 15, RadiusLat: 20},
		{Name: "Australia", Lon: 135, Lat: -25, RadiusLon: 25, RadiusLat: 20},
		{Name: "Arabia", Lon: 45, Lat: 25, RadiusLon: 15, RadiusLat: 10},
		{Name: "East_Asia", Lon: 130, Lat: 35, RadiusLon: 20, RadiusLat: 15},
	}
}

// LoadRegions reads a catalog override from a YAML file. Regions with a
// non-positive radius are rejected rather than silently skipped.
func LoadRegions(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "synth: read region catalog %s", path)
	}
	var regions []Region
	if err := yaml.Unmarshal(data, &regions); err != nil {
		return nil, eris.Wrapf(err, "synth: parse region catalog %s", path)
	}
	if len(regions) == 0 {
		return nil, eris.Errorf("synth: region catalog %s is empty", path)
	}
	for _, r := range regions {
		if r.RadiusLon <= 0 || r.RadiusLat <= 0 {
			return nil, eris.Errorf("synth: region %q has non-positive radius", r.Name)
		}
	}
	return regions, nil
}
