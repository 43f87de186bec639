package model

import "strings"

// CRS is a supported target coordinate reference system.
type CRS string

const (
	// CRSUnitGrid places coordinates in the abstract unit square [0,1]x[0,1].
	CRSUnitGrid CRS = "unit_grid"
	// CRSGeographic places coordinates in WGS84 longitude/latitude, limited
	// to the extended Eastern Hemisphere (lon -15..180, lat -60..75).
	CRSGeographic CRS = "EPSG:4326"
	// CRSWebMercator places coordinates in Web Mercator planar meters.
	CRSWebMercator CRS = "EPSG:3857"
)

// SupportedCRS lists all recognized coordinate reference systems.
func SupportedCRS() []CRS {
	return []CRS{CRSUnitGrid, CRSGeographic, CRSWebMercator}
}

// ParseCRS maps a user-supplied CRS string to a supported CRS. Unrecognized
// values return CRSUnitGrid and false; callers treat that as a graceful
// default, not an error.
func ParseCRS(s string) (CRS, bool) {
	switch strings.TrimSpace(s) {
	case string(CRSUnitGrid), "", "unit", "grid":
		return CRSUnitGrid, true
	case string(CRSGeographic), "wgs84", "WGS84", "epsg:4326":
		return CRSGeographic, true
	case string(CRSWebMercator), "web_mercator", "epsg:3857":
		return CRSWebMercator, true
	default:
		return CRSUnitGrid, false
	}
}
