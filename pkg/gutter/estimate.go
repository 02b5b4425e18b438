package gutter

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Calculator runs the gutter estimation pipeline. It holds no mutable
// state; a single Calculator is safe for concurrent use.
type Calculator struct {
	logger *zap.SugaredLogger
}

// NewCalculator returns a Calculator that logs through the given logger.
func NewCalculator(logger *zap.SugaredLogger) *Calculator {
	return &Calculator{logger: logger}
}

// Estimate produces a gutter estimate for the building described by geom,
// starting from the externally supplied roof classification. The
// classification's type may be corrected when it is inconsistent with the
// segment geometry; the corrected type is carried on the result.
func (c *Calculator) Estimate(geom BuildingGeometry, class Classification) Estimate {
	roofType := ResolveRoofType(class.Type, geom.Segments)
	if roofType != class.Type {
		c.logger.Infof("roof type %q inconsistent with segment geometry, corrected to %q", class.Type, roofType)
	}

	perimeterM, footprintM2 := EstimatePerimeter(geom)
	segments := c.processSegments(geom.Segments, geom.Latitude(), perimeterM)
	eaveM, complexity := c.eaveLength(roofType, segments, perimeterM)
	waste := wasteFactor(roofType, complexity, len(segments))

	eaveFt := eaveM * MetersToFeet
	totalFt := int(math.Ceil(eaveFt * (1 + waste)))

	// Output-boundary overestimation guard: never let the estimate exceed
	// 1.3x the building perimeter.
	if perimeterM > 0 {
		perimeterFt := perimeterM * MetersToFeet
		if float64(totalFt) > perimeterFt*1.3 {
			c.logger.Warnf("gutter estimate (%dft) exceeds max (%.0fft), capping to perimeter-based estimate",
				totalFt, perimeterFt*1.3)
			totalFt = int(math.Ceil(perimeterFt * 0.9 * (1 + waste)))
			eaveFt = perimeterFt * 0.9
		}
	}

	c.logger.Infof("gutter calculation: %.1fm eave -> %dft (waste: %.1f%%)", eaveM, totalFt, waste*100)

	return Estimate{
		EaveLengthFt:       math.Round(eaveFt*100) / 100,
		TotalGutterFt:      totalFt,
		WasteFactor:        waste,
		RoofType:           roofType,
		Confidence:         class.Confidence,
		Warnings:           warnings(roofType, eaveM, perimeterM, len(segments)),
		EstimatedRange:     estimateRange(totalFt, complexity),
		DownspoutsEstimate: downspouts(roofType, eaveM),
		ComplexityFactor:   complexity,
		PerimeterM:         perimeterM,
		FootprintM2:        footprintM2,
	}
}

// wasteFactor computes the fractional material overage for joints, corners,
// and cuts, clamped to [0.01, 0.06].
func wasteFactor(roofType RoofType, complexity float64, segmentCount int) float64 {
	base := map[RoofType]float64{
		Flat:    0.01,
		Shed:    0.015,
		Gable:   0.02,
		Gambrel: 0.025,
		Hip:     0.025,
		Mansard: 0.03,
		Complex: 0.035,
		Unknown: 0.02,
	}

	waste, ok := base[roofType]
	if !ok {
		waste = 0.02
	}

	waste += (complexity - 1.0) * 0.01
	waste += math.Max(0, float64(segmentCount-2)*0.003)
	if roofType == Hip || roofType == Mansard || roofType == Complex {
		waste += 0.005
	}

	return math.Min(0.06, math.Max(0.01, waste))
}

// downspouts estimates the downspout count from the pre-guard eave length,
// adjusted by roof type: gutters on 2-sided roofs drain at each end,
// 4-sided and complex roofs at the corners, flat roofs through internal
// drains.
func downspouts(roofType RoofType, eaveM float64) int {
	base := int(math.Max(2, math.Ceil(eaveM*MetersToFeet/45)))

	switch roofType {
	case Flat:
		return 1
	case Shed:
		return 2
	case Gable, Gambrel:
		return maxInt(2, int(math.Round(float64(base)*0.9)))
	case Hip, Mansard:
		return maxInt(4, int(math.Round(float64(base)*1.1)))
	case Complex:
		return maxInt(4, int(math.Round(float64(base)*1.2)))
	default:
		return base
	}
}

// estimateRange widens the target by a complexity-scaled percentage. A zero
// total degrades to a zero range rather than a phantom 1ft minimum.
func estimateRange(totalFt int, complexity float64) Range {
	if totalFt == 0 {
		return Range{}
	}

	pct := 0.08 + (complexity-1.0)*0.03
	return Range{
		Min:    maxInt(1, int(float64(totalFt)*(1-pct))),
		Max:    int(float64(totalFt) * (1 + pct)),
		Target: totalFt,
	}
}

// warnings emits non-fatal advisories about suspicious measurements.
func warnings(roofType RoofType, eaveM, perimeterM float64, segmentCount int) []string {
	var out []string

	if perimeterM > 0 {
		ratio := eaveM / perimeterM
		if ratio > 1.0 {
			out = append(out, fmt.Sprintf("Eave length (%.1fm) exceeds building perimeter (%.1fm) - check calculation", eaveM, perimeterM))
		} else if ratio < 0.3 {
			out = append(out, fmt.Sprintf("Eave length (%.1fm) seems low for building perimeter (%.1fm) - may miss some roof edges", eaveM, perimeterM))
		}
	}

	if segmentCount < 2 && roofType != Flat && roofType != Shed {
		out = append(out, fmt.Sprintf("Only %d roof segment(s) detected for %s roof - may miss extensions or dormers", segmentCount, roofType))
	}

	if roofType == Unknown {
		out = append(out, "Roof type unknown - gutter estimate may be inaccurate")
	}

	if eaveM > 100 {
		out = append(out, fmt.Sprintf("Large roof detected (%.1fm eave) - consider professional measurement", eaveM))
	} else if eaveM < 10 {
		out = append(out, fmt.Sprintf("Small roof detected (%.1fm eave) - verify measurements", eaveM))
	}

	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
