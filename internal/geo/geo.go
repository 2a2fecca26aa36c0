package geo

import "math"

// earthRadiusMeters is the mean Earth radius.
const earthRadiusMeters = 6371000

// DefaultRadiusMeters is used when a caller does not configure a site radius.
const DefaultRadiusMeters = 100

// DistanceMeters computes the great-circle distance in meters between two
// coordinates using the Haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinRadius reports whether the user coordinates fall within
// radiusMeters of the target. The boundary itself counts as inside.
func IsWithinRadius(userLat, userLon, targetLat, targetLon, radiusMeters float64) bool {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return DistanceMeters(userLat, userLon, targetLat, targetLon) <= radiusMeters
}
