package geo

import "math"

// DefaultRadiusKm is the discovery radius used when the caller does not
// override it.
const DefaultRadiusKm = 5.0

const earthRadiusKm = 6371.0

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle distance between two coordinates
// using the haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair outside [0, 1] for near-antipodal pairs,
	// which would make the square roots NaN.
	if h > 1 {
		h = 1
	} else if h < 0 {
		h = 0
	}
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Within reports whether point lies inside radiusKm of center.
func Within(center, point Coordinate, radiusKm float64) bool {
	return DistanceKm(center, point) <= radiusKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
