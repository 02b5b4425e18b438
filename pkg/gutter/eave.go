package gutter

// segmentSumCap and segmentSumFallback guard against segment-level sums
// double-counting shared edges: a sum above perimeter * segmentSumCap is
// replaced with perimeter * segmentSumFallback. The thresholds were tuned
// empirically; see also the separate output-boundary guard in Estimate.
const (
	segmentSumCap      = 1.2
	segmentSumFallback = 0.9
)

// eaveLength computes the total eave length and a complexity factor for the
// resolved roof type.
//
// Hip and gable roofs both run gutters on the two primary slopes, so both
// reduce to half the building perimeter; they differ only in complexity.
// Every other type, and hip/gable when no perimeter could be estimated,
// sums the per-segment eave lengths with the overestimation cap applied.
func (c *Calculator) eaveLength(roofType RoofType, segments []RoofSegment, perimeterM float64) (eaveM, complexity float64) {
	if len(segments) == 0 {
		return 0, 1.0
	}

	switch roofType {
	case Hip:
		if perimeterM > 0 {
			c.logger.Debugf("hip roof: gutters on two primary slopes, %.1fm perimeter -> %.1fm eave", perimeterM, perimeterM*0.5)
			return perimeterM * 0.5, 1.2
		}
	case Gable:
		if perimeterM > 0 {
			c.logger.Debugf("gable roof: %.1fm perimeter -> %.1fm eave", perimeterM, perimeterM*0.5)
			return perimeterM * 0.5, 1.0
		}
	}

	var sum float64
	for _, seg := range segments {
		sum += seg.EaveLengthM
	}

	if perimeterM > 0 && sum > perimeterM*segmentSumCap {
		c.logger.Warnf("segment eave sum (%.1fm) exceeds %.1fx perimeter, capping to %.1fm",
			sum, segmentSumCap, perimeterM*segmentSumFallback)
		sum = perimeterM * segmentSumFallback
	}

	switch {
	case len(segments) <= 2:
		complexity = 1.0
	case len(segments) <= 4:
		complexity = 1.2
	default:
		complexity = 1.4
	}

	return sum, complexity
}
