// Package geoutil provides small geodesy helpers for converting
// latitude/longitude geometry into ground distances in meters.
package geoutil

import "math"

// EarthRadiusM is the mean Earth radius used for great-circle distances.
const EarthRadiusM = 6371000.0

// MetersPerDegree returns the ground length of one degree of longitude and
// one degree of latitude at the given latitude. The longitude factor shrinks
// with cos(latitude); the latitude factor is treated as constant.
func MetersPerDegree(latitude float64) (lonMeters, latMeters float64) {
	latRad := latitude * math.Pi / 180.0
	return 111320 * math.Cos(latRad), 111132
}

// HaversineDistance returns the great-circle distance in meters between two
// points given in decimal degrees.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degToRad(lat1)
	lat2Rad := degToRad(lat2)
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// BoundingBox is a lat/lon-aligned rectangle given by its southwest and
// northeast corners.
type BoundingBox struct {
	SouthWestLat float64
	SouthWestLon float64
	NorthEastLat float64
	NorthEastLon float64
}

// Dimensions returns the east-west width and north-south length of the box
// in meters. The east-west span is measured along the box's center latitude
// so the result holds for boxes away from the equator.
func (b BoundingBox) Dimensions() (widthM, lengthM float64) {
	centerLat := (b.SouthWestLat + b.NorthEastLat) / 2
	widthM = HaversineDistance(centerLat, b.SouthWestLon, centerLat, b.NorthEastLon)
	lengthM = HaversineDistance(b.SouthWestLat, b.SouthWestLon, b.NorthEastLat, b.SouthWestLon)
	return widthM, lengthM
}

// SpanMeters converts the box's latitude and longitude spans to meters using
// the per-degree factors at the given latitude.
func (b BoundingBox) SpanMeters(latitude float64) (lonSpanM, latSpanM float64) {
	lonMeters, latMeters := MetersPerDegree(latitude)
	lonSpanM = math.Abs(b.NorthEastLon-b.SouthWestLon) * lonMeters
	latSpanM = math.Abs(b.NorthEastLat-b.SouthWestLat) * latMeters
	return lonSpanM, latSpanM
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
