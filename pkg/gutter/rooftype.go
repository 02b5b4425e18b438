package gutter

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ResolveRoofType corrects an externally supplied roof-type label when the
// segment geometry is clearly inconsistent with it. The table is advisory:
// a label already consistent with the geometry passes through untouched.
//
//	1 segment              -> shed (unless already shed or flat)
//	2 segments             -> gable
//	>=4 with >=3 azimuths  -> hip (unless already hip, mansard, or complex)
//	>4 segments            -> complex (unless already complex)
func ResolveRoofType(external RoofType, segments []RoofSegment) RoofType {
	if len(segments) == 0 {
		return external
	}

	var totalArea float64
	for _, seg := range segments {
		totalArea += seg.AreaM2
	}
	if totalArea <= 0 {
		return external
	}

	count := len(segments)
	azimuths := UniqueAzimuths(segments)

	switch {
	case count == 1:
		if external != Shed && external != Flat {
			return Shed
		}
	case count == 2:
		if external != Gable {
			return Gable
		}
	case count >= 4 && azimuths >= 3:
		if external != Hip && external != Mansard && external != Complex {
			return Hip
		}
	case count > 4:
		if external != Complex {
			return Complex
		}
	}

	return external
}

// UniqueAzimuths counts distinct segment azimuths. Values are rounded to
// five decimal places first to absorb floating-point noise in the upstream
// payload.
func UniqueAzimuths(segments []RoofSegment) int {
	seen := make(map[float64]struct{}, len(segments))
	for _, seg := range segments {
		rounded := math.Round(seg.AzimuthDegrees*1e5) / 1e5
		seen[rounded] = struct{}{}
	}
	return len(seen)
}

// ClassifyGeometry derives a roof type from segment count alone, the most
// reliable signal in building-insights data. A single low-pitch segment is
// called flat rather than shed.
func ClassifyGeometry(segments []RoofSegment) RoofType {
	switch count := len(segments); {
	case count == 1:
		if meanPitch(segments) < 15 {
			return Flat
		}
		return Shed
	case count == 2 || count == 3:
		return Gable
	case count == 4 || count == 5:
		return Hip
	case count >= 6:
		return Complex
	default:
		return Unknown
	}
}

func meanPitch(segments []RoofSegment) float64 {
	pitches := make([]float64, len(segments))
	for i, seg := range segments {
		pitches[i] = seg.PitchDegrees
	}
	return stat.Mean(pitches, nil)
}

// GeometryConfidence scores how strongly the segment geometry supports a
// geometry-derived roof type, given the competing external label. Segment
// counts of exactly 2 or 4 are the clearest cases; an external "hip" on 2
// segments or "gable" on 4 are known confusions and are penalized.
// The result is clamped to [0.3, 0.95].
func GeometryConfidence(segmentCount int, externalType, geometryType RoofType) float64 {
	confidence := 0.8

	switch {
	case segmentCount == 2 || segmentCount == 4:
		confidence += 0.15
	case segmentCount >= 3 && segmentCount <= 5:
		confidence += 0.1
	case segmentCount > 5:
		confidence -= 0.1
	}

	switch {
	case externalType == geometryType:
		confidence += 0.1
	case (externalType == Gable || externalType == Hip) && (geometryType == Gable || geometryType == Hip):
		confidence += 0.05
	case externalType == Unknown && geometryType != Unknown:
		confidence += 0.1
	}

	if segmentCount == 2 && externalType == Hip {
		confidence -= 0.2
	} else if segmentCount == 4 && externalType == Gable {
		confidence -= 0.2
	}

	return math.Max(0.3, math.Min(0.95, confidence))
}

// Fuse reconciles an externally produced classification with the segment
// geometry. When geometry is decisively more confident (by more than 0.15)
// its type and confidence win outright; when merely more confident, its
// type wins with the two confidences averaged; otherwise the external
// classification stands, with its confidence floored at 90% of the
// geometry score. With no segments to check against, the external result
// passes through with a 20% confidence penalty for the missing
// independent verification.
func Fuse(external Classification, segments []RoofSegment) Classification {
	if len(segments) == 0 {
		return Classification{
			Type:       external.Type,
			Confidence: external.Confidence * 0.8,
		}
	}

	geometryType := ClassifyGeometry(segments)
	geometryConfidence := GeometryConfidence(len(segments), external.Type, geometryType)

	switch {
	case geometryConfidence > external.Confidence+0.15:
		return Classification{Type: geometryType, Confidence: geometryConfidence}
	case geometryConfidence > external.Confidence:
		return Classification{
			Type:       geometryType,
			Confidence: (external.Confidence + geometryConfidence) / 2,
		}
	default:
		return Classification{
			Type:       external.Type,
			Confidence: math.Max(external.Confidence, geometryConfidence*0.9),
		}
	}
}
