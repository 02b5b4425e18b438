package gutter

import (
	"math"

	"github.com/roofsight/roofsight/pkg/geoutil"
)

// Residential plausibility bounds for a building perimeter. Estimates
// outside this window are clamped, not rejected.
const (
	MinPerimeterM = 20.0
	MaxPerimeterM = 200.0
)

// EstimatePerimeter computes the building perimeter and footprint area from
// whole-roof stats and segment bounding boxes.
//
// The whole-roof ground area gives a square-footprint estimate
// (4 * sqrt(area)). When segment bounding boxes are present, the perimeter
// of their union box replaces that estimate, but only when the area method
// produced nothing or the two roughly agree (relative difference under
// 30%); a large disagreement without corroborating evidence leaves the
// area-based estimate in place.
func EstimatePerimeter(geom BuildingGeometry) (perimeterM, footprintM2 float64) {
	footprintM2 = geom.WholeRoofAreaM2

	if footprintM2 > 0 {
		perimeterM = 4 * math.Sqrt(footprintM2)
	}

	if union, ok := unionBox(geom.Segments); ok {
		lonSpanM, latSpanM := union.SpanMeters(geom.Latitude())
		boxPerimeter := 2 * (latSpanM + lonSpanM)
		if boxPerimeter > 0 && (perimeterM == 0 || math.Abs(boxPerimeter-perimeterM)/perimeterM < 0.3) {
			perimeterM = boxPerimeter
		}
	}

	if perimeterM == 0 && footprintM2 > 0 {
		perimeterM = 4 * math.Sqrt(footprintM2)
	}

	if perimeterM > 0 {
		if perimeterM < MinPerimeterM {
			perimeterM = MinPerimeterM
		} else if perimeterM > MaxPerimeterM {
			perimeterM = MaxPerimeterM
		}
	}

	return perimeterM, footprintM2
}

// unionBox returns the bounding box enclosing every segment box, and false
// when no segment carries one.
func unionBox(segments []RoofSegment) (geoutil.BoundingBox, bool) {
	var union geoutil.BoundingBox
	found := false

	for _, seg := range segments {
		if seg.Box == nil {
			continue
		}
		if !found {
			union = *seg.Box
			found = true
			continue
		}
		union.SouthWestLat = math.Min(union.SouthWestLat, seg.Box.SouthWestLat)
		union.SouthWestLon = math.Min(union.SouthWestLon, seg.Box.SouthWestLon)
		union.NorthEastLat = math.Max(union.NorthEastLat, seg.Box.NorthEastLat)
		union.NorthEastLon = math.Max(union.NorthEastLon, seg.Box.NorthEastLon)
	}

	return union, found
}
