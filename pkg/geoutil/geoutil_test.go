package geoutil

import (
	"math"
	"testing"
)

func TestMetersPerDegree(t *testing.T) {
	tests := []struct {
		name     string
		latitude float64
		lonM     float64
	}{
		{"equator", 0, 111320},
		{"mid-latitude", 40, 111320 * 0.76604444},
		{"high latitude", 60, 111320 * 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lonM, latM := MetersPerDegree(tt.latitude)
			if math.Abs(lonM-tt.lonM) > 1.0 {
				t.Errorf("lonM = %.1f, expected %.1f", lonM, tt.lonM)
			}
			if latM != 111132 {
				t.Errorf("latM = %.1f, expected constant 111132", latM)
			}
		})
	}
}

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is ~111.2km everywhere.
	d := HaversineDistance(40.0, -105.0, 41.0, -105.0)
	if math.Abs(d-111195) > 200 {
		t.Errorf("1 degree latitude = %.0fm, expected ~111195m", d)
	}

	if d := HaversineDistance(40.0, -105.0, 40.0, -105.0); d != 0 {
		t.Errorf("zero-length distance = %f, expected 0", d)
	}
}

func TestBoundingBoxDimensions(t *testing.T) {
	// A box 0.0002 degrees on each side near latitude 40: the north-south
	// span is ~22m; the east-west span shrinks with cos(latitude) to ~17m.
	box := BoundingBox{
		SouthWestLat: 40.0000, SouthWestLon: -105.0002,
		NorthEastLat: 40.0002, NorthEastLon: -105.0000,
	}

	widthM, lengthM := box.Dimensions()
	if math.Abs(lengthM-22.2) > 0.5 {
		t.Errorf("lengthM = %.2f, expected ~22.2", lengthM)
	}
	if math.Abs(widthM-17.0) > 0.5 {
		t.Errorf("widthM = %.2f, expected ~17.0", widthM)
	}
}

func TestBoundingBoxSpanMeters(t *testing.T) {
	box := BoundingBox{
		SouthWestLat: 40.0000, SouthWestLon: -105.0002,
		NorthEastLat: 40.0002, NorthEastLon: -105.0000,
	}

	lonSpanM, latSpanM := box.SpanMeters(40.0)
	if math.Abs(latSpanM-111132*0.0002) > 0.01 {
		t.Errorf("latSpanM = %.3f, expected %.3f", latSpanM, 111132*0.0002)
	}
	expectedLon := 111320 * math.Cos(40*math.Pi/180) * 0.0002
	if math.Abs(lonSpanM-expectedLon) > 0.01 {
		t.Errorf("lonSpanM = %.3f, expected %.3f", lonSpanM, expectedLon)
	}
}
