package gutter

import (
	"math"
	"testing"

	"github.com/roofsight/roofsight/pkg/geoutil"
)

func TestProcessSegmentsBoundingBoxMethod(t *testing.T) {
	// 0.0002 degrees of latitude is ~22.2m; longer than the longitude span,
	// so it becomes the eave footprint, then stretched by 1/cos(30).
	seg := RoofSegment{
		AreaM2:       60,
		PitchDegrees: 30,
		Box: &geoutil.BoundingBox{
			SouthWestLat: 40.0000, SouthWestLon: -105.0001,
			NorthEastLat: 40.0002, NorthEastLon: -105.0000,
		},
	}

	got := testCalculator().processSegments([]RoofSegment{seg}, 40.0, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 processed segment, got %d", len(got))
	}

	expected := 111132 * 0.0002 / math.Cos(30*math.Pi/180)
	if math.Abs(got[0].EaveLengthM-expected) > 0.01 {
		t.Errorf("EaveLengthM = %.3f, expected %.3f", got[0].EaveLengthM, expected)
	}
	if math.Abs(got[0].DepthM-60/expected) > 0.01 {
		t.Errorf("DepthM = %.3f, expected %.3f", got[0].DepthM, 60/expected)
	}
}

func TestProcessSegmentsAreaFallback(t *testing.T) {
	tests := []struct {
		name     string
		segment  RoofSegment
		expected float64
	}{
		{
			name:     "flat segment",
			segment:  RoofSegment{AreaM2: 49, PitchDegrees: 0},
			expected: 7,
		},
		{
			name:     "pitched segment",
			segment:  RoofSegment{AreaM2: 50, PitchDegrees: 30},
			expected: math.Sqrt(50 / math.Cos(30*math.Pi/180)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testCalculator().processSegments([]RoofSegment{tt.segment}, 40.0, 0)
			if math.Abs(got[0].EaveLengthM-tt.expected) > 1e-9 {
				t.Errorf("EaveLengthM = %.4f, expected %.4f", got[0].EaveLengthM, tt.expected)
			}
		})
	}
}

func TestProcessSegmentsPerimeterShareFallback(t *testing.T) {
	// Zero areas and no boxes leave only the perimeter-share method, which
	// needs a positive area to apportion; all methods failing leaves eave 0.
	segs := []RoofSegment{{AreaM2: 0}, {AreaM2: 0}}
	got := testCalculator().processSegments(segs, 40.0, 40)
	for i, seg := range got {
		if seg.EaveLengthM != 0 {
			t.Errorf("segment %d EaveLengthM = %.2f, expected 0", i, seg.EaveLengthM)
		}
	}

	// With areas but nothing else, the area method wins before the
	// perimeter share; force the share path with a negative-pitch probe
	// instead: not representable, so exercise the share formula directly.
	eave, ok := eaveFromPerimeterShare(RoofSegment{AreaM2: 25}, 40, 100)
	if !ok {
		t.Fatal("expected perimeter-share estimate")
	}
	if math.Abs(eave-40*0.25*0.25) > 1e-9 {
		t.Errorf("eave = %.3f, expected %.3f", eave, 40*0.25*0.25)
	}
}

func TestProcessSegmentsSkipsUnusable(t *testing.T) {
	segs := []RoofSegment{
		{AreaM2: math.NaN(), PitchDegrees: 20},
		{AreaM2: 50, PitchDegrees: -5},
		{AreaM2: 50, PitchDegrees: 30},
	}

	got := testCalculator().processSegments(segs, 40.0, 0)
	if len(got) != 1 {
		t.Errorf("expected 1 usable segment, got %d", len(got))
	}
}

func TestEstimatePerimeterBounds(t *testing.T) {
	tests := []struct {
		name     string
		geom     BuildingGeometry
		expected float64
	}{
		{
			name:     "square footprint",
			geom:     BuildingGeometry{WholeRoofAreaM2: 100},
			expected: 40,
		},
		{
			name:     "tiny area clamps to 20m",
			geom:     BuildingGeometry{WholeRoofAreaM2: 4},
			expected: 20,
		},
		{
			name:     "huge area clamps to 200m",
			geom:     BuildingGeometry{WholeRoofAreaM2: 10000},
			expected: 200,
		},
		{
			name:     "no data yields zero",
			geom:     BuildingGeometry{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perimeter, _ := EstimatePerimeter(tt.geom)
			if perimeter != tt.expected {
				t.Errorf("perimeter = %.1f, expected %.1f", perimeter, tt.expected)
			}
			if perimeter != 0 && (perimeter < MinPerimeterM || perimeter > MaxPerimeterM) {
				t.Errorf("perimeter %.1f outside [%.0f, %.0f]", perimeter, MinPerimeterM, MaxPerimeterM)
			}
		})
	}
}

func TestEstimatePerimeterBoundingBoxAgreement(t *testing.T) {
	// Union box ~22.2m x ~17.1m near latitude 40 gives a perimeter of
	// ~78.5m. An area estimate within 30% is replaced by it.
	box := &geoutil.BoundingBox{
		SouthWestLat: 40.0000, SouthWestLon: -105.0002,
		NorthEastLat: 40.0002, NorthEastLon: -105.0000,
	}
	lonSpanM, latSpanM := box.SpanMeters(40.0)
	boxPerimeter := 2 * (latSpanM + lonSpanM)

	agree := BuildingGeometry{
		Segments:        []RoofSegment{{AreaM2: 50, Box: box}},
		WholeRoofAreaM2: 380, // 4*sqrt = ~78m, within 30% of the box
		CenterLatitude:  40.0,
	}
	perimeter, _ := EstimatePerimeter(agree)
	if math.Abs(perimeter-boxPerimeter) > 0.01 {
		t.Errorf("perimeter = %.2f, expected bounding-box value %.2f", perimeter, boxPerimeter)
	}

	// A wildly disagreeing area estimate stays in place.
	disagree := BuildingGeometry{
		Segments:        []RoofSegment{{AreaM2: 50, Box: box}},
		WholeRoofAreaM2: 2500, // 4*sqrt = 200m, nowhere near the box
		CenterLatitude:  40.0,
	}
	perimeter, _ = EstimatePerimeter(disagree)
	if perimeter != 200 {
		t.Errorf("perimeter = %.2f, expected area-based 200", perimeter)
	}
}
