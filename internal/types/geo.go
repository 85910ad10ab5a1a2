package types

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between p and q.
func (p Point) DistanceKm(q Point) float64 {
	dLat := degreesToRadians(q.Lat - p.Lat)
	dLon := degreesToRadians(q.Lon - p.Lon)

	rLat1 := degreesToRadians(p.Lat)
	rLat2 := degreesToRadians(q.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
