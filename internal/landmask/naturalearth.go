package landmask

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

// Candidate shapefile locations under the data directory, in priority order
// (110m is coarser but loads faster; 50m is the higher-resolution fallback).
var shapefileCandidates = []string{
	filepath.Join("ne_110m_land", "ne_110m_land.shp"),
	filepath.Join("ne_50m_land", "ne_50m_land.shp"),
	"ne_110m_land.shp",
	"ne_50m_land.shp",
}

// NaturalEarth detects land using Natural Earth land polygons, loaded lazily
// on first use and memoized for the life of the detector. When no shapefile
// is present it degrades to coordinate-rule detection unless that fallback
// was disabled. Read-only after initialization, so safe for concurrent use.
type NaturalEarth struct {
	dataDir string
	noRules bool

	once sync.Once
	land *geom.MultiPolygon
}

// Option configures a NaturalEarth detector.
type Option func(*NaturalEarth)

// WithoutRuleFallback disables coordinate-rule detection, so the detector is
// unavailable when no shapefile can be loaded. Used to exercise the
// passthrough degrade path.
func WithoutRuleFallback() Option {
	return func(d *NaturalEarth) { d.noRules = true }
}

// NewNaturalEarth creates a detector reading shapefiles from dataDir. The
// dataset is not touched until the first OnLand or Available call.
func NewNaturalEarth(dataDir string, opts ...Option) *NaturalEarth {
	d := &NaturalEarth{dataDir: dataDir}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Available reports whether polygon data or the rule fallback is usable.
func (d *NaturalEarth) Available() bool {
	d.once.Do(d.load)
	return d.land != nil || !d.noRules
}

// OnLand reports whether the point is on land. Antarctica (lat < -60) is
// always water.
func (d *NaturalEarth) OnLand(lon, lat float64) bool {
	if lat < -60 {
		return false
	}
	d.once.Do(d.load)
	if d.land != nil {
		return multiPolygonContains(d.land, lon, lat)
	}
	if d.noRules {
		return false
	}
	return ruleOnLand(lon, lat)
}

func (d *NaturalEarth) load() {
	log := zap.L().With(zap.String("component", "landmask"))

	var shpPath string
	for _, cand := range shapefileCandidates {
		p := filepath.Join(d.dataDir, cand)
		if _, err := os.Stat(p); err == nil {
			shpPath = p
			break
		}
	}
	if shpPath == "" {
		log.Warn("land shapefile not found, using coordinate-rule land detection",
			zap.String("data_dir", d.dataDir))
		return
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		log.Error("failed to open land shapefile", zap.String("path", shpPath), zap.Error(err))
		return
	}
	defer func() { _ = reader.Close() }()

	classIdx := fieldIndex(reader, "featurecla")

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	var features int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			continue
		}
		if classIdx >= 0 {
			if class := decodeAttr(reader.Attribute(classIdx)); class != "" && !strings.EqualFold(class, "Land") {
				continue
			}
		}
		appendPolygonParts(mp, poly)
		features++
	}

	if mp.NumPolygons() == 0 {
		log.Warn("land shapefile contained no usable polygons", zap.String("path", shpPath))
		return
	}

	d.land = mp
	log.Info("loaded land geometry",
		zap.String("path", shpPath),
		zap.Int("features", features),
		zap.Int("polygons", mp.NumPolygons()),
	)
}

// appendPolygonParts adds each ring of a shapefile polygon as its own
// single-ring polygon. Holes (lakes) are treated as land, which is within
// tolerance for a simplified mask.
func appendPolygonParts(mp *geom.MultiPolygon, p *shp.Polygon) {
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 8 { // a closed ring needs at least 4 points
			continue
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("landmask: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("landmask: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
		}
	}
}

// multiPolygonContains tests a point against every polygon's exterior ring.
func multiPolygonContains(mp *geom.MultiPolygon, lon, lat float64) bool {
	pt := geom.Coord{lon, lat}
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		if xy.IsPointInRing(geom.XY, pt, poly.LinearRing(0).FlatCoords()) {
			return true
		}
	}
	return false
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// decodeAttr converts a DBF attribute value to UTF-8. Natural Earth DBF
// files are Windows-1252, not UTF-8.
func decodeAttr(raw string) string {
	enc, err := htmlindex.Get("windows-1252")
	if err != nil {
		return strings.TrimSpace(raw)
	}
	decoded, err := enc.NewDecoder().String(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(decoded)
}
