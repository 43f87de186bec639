package landmask

import "math"

// box is an inclusive lon/lat bounding rectangle.
type box struct {
	lonMin, lonMax float64
	latMin, latMax float64
}

func (b box) contains(lon, lat float64) bool {
	return lon >= b.lonMin && lon <= b.lonMax && lat >= b.latMin && lat <= b.latMax
}

// ruleOnLand is the coordinate-rule land approximation for the extended
// Eastern Hemisphere, used when no shapefile is available. The boxes trade
// precision for robustness: major land masses accepted, major seas carved
// out.
func ruleOnLand(lon, lat float64) bool {
	// Africa, excluding the central lakes belt and the Red Sea.
	if (box{-15, 65, -40, 40}).contains(lon, lat) {
		if !(box{20, 45, -5, 15}).contains(lon, lat) &&
			!(box{30, 42, 25, 35}).contains(lon, lat) {
			return true
		}
	}

	// Europe.
	if (box{-15, 70, 35, 75}).contains(lon, lat) {
		return true
	}

	// Asia, excluding the Persian Gulf, Bay of Bengal and Caspian regions.
	if (box{25, 180, 5, 75}).contains(lon, lat) {
		if !(box{35, 55, 15, 30}).contains(lon, lat) &&
			!(box{75, 95, 5, 25}).contains(lon, lat) &&
			!(box{45, 75, 35, 50}).contains(lon, lat) {
			return true
		}
	}

	// India and Southeast Asia, excluding the Bay of Bengal.
	if (box{65, 140, -10, 40}).contains(lon, lat) {
		if !(box{75, 95, 5, 25}).contains(lon, lat) {
			return true
		}
	}

	// Australia and New Zealand.
	if (box{110, 180, -50, -10}).contains(lon, lat) {
		return true
	}

	// Japan, Korea, Philippines archipelago.
	if (box{120, 150, 20, 50}).contains(lon, lat) {
		return true
	}

	// Madagascar.
	if (box{43, 51, -26, -12}).contains(lon, lat) {
		return true
	}

	// Arabian Peninsula, excluding the Persian Gulf.
	if (box{30, 65, 10, 35}).contains(lon, lat) {
		if !(box{48, 58, 20, 30}).contains(lon, lat) {
			return true
		}
	}

	// Sri Lanka.
	if (box{78, 82, 5, 10}).contains(lon, lat) {
		return true
	}

	// Indonesia/Malaysia archipelago: dense islands, accept ~70% of points
	// rather than tracing coastlines.
	if (box{90, 140, -15, 10}).contains(lon, lat) {
		return archipelagoAccept(lon, lat)
	}

	return false
}

// archipelagoAccept keys the acceptance decision on the point itself, so the
// rule is reproducible for a fixed run seed and shares no state across
// concurrent runs. The mix is splitmix64 over the coordinate bits.
func archipelagoAccept(lon, lat float64) bool {
	h := math.Float64bits(lon)*0x9e3779b97f4a7c15 ^ math.Float64bits(lat)
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return float64(h>>11)/(1<<53) > 0.3
}
