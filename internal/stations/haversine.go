package stations

import "math"

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance in km between two points.
// Symmetric, and zero for identical points, by construction.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLon1 := lon1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	rLon2 := lon2 * math.Pi / 180

	dLat := rLat2 - rLat1
	dLon := rLon2 - rLon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}
