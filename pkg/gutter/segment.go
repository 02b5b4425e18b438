package gutter

import (
	"math"
)

// eaveEstimator attempts one method of deriving a segment's eave length.
// It reports false when the method has no evidence to offer; the caller
// tries estimators in priority order and takes the first positive result.
type eaveEstimator func(seg RoofSegment) (float64, bool)

// processSegments derives the eave length and depth for each raw segment.
// Estimation methods, in strict priority order:
//
//  1. bounding box span, pitch-corrected onto the sloped plane
//  2. area-based (sqrt of area, pitch-corrected)
//  3. proportional share of the building perimeter
//
// Segments with unusable values are skipped rather than aborting the batch.
func (c *Calculator) processSegments(segments []RoofSegment, latitude, perimeterM float64) []RoofSegment {
	var totalArea float64
	for _, seg := range segments {
		totalArea += seg.AreaM2
	}

	estimators := []eaveEstimator{
		func(seg RoofSegment) (float64, bool) {
			return eaveFromBoundingBox(seg, latitude)
		},
		eaveFromArea,
		func(seg RoofSegment) (float64, bool) {
			return eaveFromPerimeterShare(seg, perimeterM, totalArea)
		},
	}

	processed := make([]RoofSegment, 0, len(segments))
	for i, seg := range segments {
		if !segmentUsable(seg) {
			c.logger.Warnf("skipping unusable roof segment %d (area: %v, pitch: %v)", i, seg.AreaM2, seg.PitchDegrees)
			continue
		}

		for _, estimate := range estimators {
			if eave, ok := estimate(seg); ok {
				seg.EaveLengthM = eave
				break
			}
		}
		if seg.EaveLengthM > 0 {
			seg.DepthM = seg.AreaM2 / seg.EaveLengthM
		}
		processed = append(processed, seg)
	}

	return processed
}

// eaveFromBoundingBox takes the longer horizontal span of the segment's
// bounding box as the eave footprint, then projects it onto the sloped
// plane by dividing by cos(pitch).
func eaveFromBoundingBox(seg RoofSegment, latitude float64) (float64, bool) {
	if seg.Box == nil {
		return 0, false
	}

	lonSpanM, latSpanM := seg.Box.SpanMeters(latitude)
	eave := math.Max(latSpanM, lonSpanM)
	if eave <= 0 {
		return 0, false
	}

	if seg.PitchDegrees > 0 {
		eave /= math.Cos(seg.PitchDegrees * math.Pi / 180.0)
	}
	return eave, true
}

// eaveFromArea assumes a roughly square segment: sqrt(area) for flat
// segments, sqrt(area/cos(pitch)) for pitched ones.
func eaveFromArea(seg RoofSegment) (float64, bool) {
	if seg.AreaM2 <= 0 {
		return 0, false
	}
	if seg.PitchDegrees <= 0 {
		return math.Sqrt(seg.AreaM2), true
	}
	return math.Sqrt(seg.AreaM2 / math.Cos(seg.PitchDegrees*math.Pi/180.0)), true
}

// eaveFromPerimeterShare assigns the segment a share of a 4-sided perimeter
// proportional to its share of total segment area.
func eaveFromPerimeterShare(seg RoofSegment, perimeterM, totalArea float64) (float64, bool) {
	if perimeterM <= 0 || totalArea <= 0 || seg.AreaM2 <= 0 {
		return 0, false
	}
	return perimeterM * (seg.AreaM2 / totalArea) * 0.25, true
}

func segmentUsable(seg RoofSegment) bool {
	if seg.AreaM2 < 0 || math.IsNaN(seg.AreaM2) || math.IsInf(seg.AreaM2, 0) {
		return false
	}
	if math.IsNaN(seg.PitchDegrees) || seg.PitchDegrees < 0 || seg.PitchDegrees >= 90 {
		return false
	}
	return true
}
