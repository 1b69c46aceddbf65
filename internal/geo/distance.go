// Package geo provides the great-circle distance used to verify that a
// worker (or a photo's EXIF position) is physically at a job's location.
package geo

import "math"

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371000.0

// ProximityThresholdMeters is the single policy constant shared by
// check-in, check-out and photo EXIF validation. The contract is
// inclusive: a point exactly on the threshold passes.
const ProximityThresholdMeters = 100.0

// Distance returns the haversine great-circle distance in meters between
// two coordinates. It is pure and symmetric, and returns 0 for identical
// points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// WithinRange reports whether a distance passes the proximity gate.
func WithinRange(distanceM float64) bool {
	return distanceM <= ProximityThresholdMeters
}
