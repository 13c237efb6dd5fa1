// Package geo provides great-circle distance calculations and
// nearest-point selection used throughout ShoreCast.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for haversine distances.
const EarthRadiusMeters = 6371000

// Distance calculates the great-circle distance between two points in meters
// using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Nearest returns the index of the point closest to (lat, lon) and its
// distance in meters. The scan keeps the first strict minimum, so ties
// resolve to the lower index. Returns -1 when n is zero.
func Nearest(lat, lon float64, n int, at func(i int) (float64, float64)) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i := 0; i < n; i++ {
		pLat, pLon := at(i)
		d := Distance(lat, lon, pLat, pLon)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// ValidCoordinates reports whether lat and lon are within valid ranges.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
