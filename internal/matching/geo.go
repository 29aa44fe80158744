// internal/matching/geo.go
package matching

import "math"

const earthRadiusKm = 6371.0

// Coordinate is a WGS84 point. Pointers to Coordinate distinguish "no
// location on record" from the zero coordinate off the coast of Africa.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is finite and within latitude
// [-90, 90] and longitude [-180, 180].
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Distance returns the great-circle distance between two points in
// kilometers using the Haversine formula, rounded to two decimals.
func Distance(a, b Coordinate) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	d := earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(d*100) / 100
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceScore maps a distance to [0, 1]: full score up to preferredKm,
// zero beyond acceptableKm, linear falloff in between.
func DistanceScore(distanceKm, preferredKm, acceptableKm float64) float64 {
	switch {
	case distanceKm <= preferredKm:
		return 1.0
	case distanceKm > acceptableKm:
		return 0.0
	default:
		return 1.0 - (distanceKm-preferredKm)/(acceptableKm-preferredKm)
	}
}

// DistanceCategory buckets a distance into a display label.
func DistanceCategory(distanceKm float64) string {
	switch {
	case distanceKm <= 5:
		return "Very Close"
	case distanceKm <= 15:
		return "Close"
	case distanceKm <= 30:
		return "Moderate"
	case distanceKm <= 50:
		return "Far"
	default:
		return "Very Far"
	}
}
