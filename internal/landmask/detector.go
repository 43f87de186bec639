// Package landmask answers whether a geographic point lies on land, backed
// by a simplified Natural Earth land polygon dataset with a coordinate-rule
// fallback when the dataset is missing.
package landmask

// Detector reports whether a longitude/latitude point is on land.
// Implementations must be safe for concurrent readers once initialized.
type Detector interface {
	// OnLand returns true when the point lies on land. Points below -60
	// latitude (Antarctica) are never land.
	OnLand(lon, lat float64) bool

	// Available reports whether the detector has any usable backing (polygon
	// data or rule set). Callers treat an unavailable detector as a
	// passthrough: placement search is skipped entirely.
	Available() bool
}
