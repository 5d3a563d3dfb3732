// Package location implements the office geofence used to validate check-in
// and check-out coordinates.
package location

import "math"

const earthRadiusMeters = 6371000

// Office is the configured geofence: a centre coordinate and a radius. The
// radius has exactly one source of truth, the configuration, and is never
// duplicated per call site.
type Office struct {
	Lat     float64
	Lon     float64
	RadiusM float64
}

// Check is the verdict for one received coordinate.
type Check struct {
	Within         bool
	DistanceMeters float64
	RadiusMeters   float64
}

// Distance returns the great-circle distance between two coordinates in
// meters using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMeters * c
}

// Verify checks a coordinate against the office zone. Distances are rounded
// to centimetres for display.
func (o Office) Verify(lat, lon float64) Check {
	distance := Distance(o.Lat, o.Lon, lat, lon)
	return Check{
		Within:         distance <= o.RadiusM,
		DistanceMeters: math.Round(distance*100) / 100,
		RadiusMeters:   o.RadiusM,
	}
}
