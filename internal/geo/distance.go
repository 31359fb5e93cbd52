package geo

import "math"

const (
	earthRadiusKm    = 6371
	earthRadiusMiles = 3959
)

// DistanceKm returns the haversine great-circle distance between two
// points in kilometers. All dispatch scoring and feasibility checks use
// this function.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return haversine(lat1, lon1, lat2, lon2) * earthRadiusKm
}

// DistanceMiles is the display-unit variant used by map-facing
// consumers. It is intentionally separate from DistanceKm; the two
// serve different callers with different units.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	return haversine(lat1, lon1, lat2, lon2) * earthRadiusMiles
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
