// Package gutter estimates rain-gutter footage and downspout counts from
// roof segment geometry and a roof-type classification. All calculations
// are pure transformations over in-memory values; callers fetch geometry
// and classification data before invoking the package.
package gutter

import "github.com/roofsight/roofsight/pkg/geoutil"

// RoofType is a roof shape classification label.
type RoofType string

const (
	Gable   RoofType = "gable"
	Hip     RoofType = "hip"
	Flat    RoofType = "flat"
	Mansard RoofType = "mansard"
	Gambrel RoofType = "gambrel"
	Shed    RoofType = "shed"
	Complex RoofType = "complex"
	Unknown RoofType = "unknown"
)

// ParseRoofType maps a label from an external classifier onto a known
// RoofType, returning Unknown for anything unrecognized.
func ParseRoofType(s string) RoofType {
	switch RoofType(s) {
	case Gable, Hip, Flat, Mansard, Gambrel, Shed, Complex:
		return RoofType(s)
	default:
		return Unknown
	}
}

// DefaultLatitude is used for meter conversions when the building center is
// absent from the upstream payload. It is a documented fallback, not a real
// location.
const DefaultLatitude = 40.0

// MetersToFeet is the meters-to-feet conversion factor.
const MetersToFeet = 3.28084

// RoofSegment is one planar roof face.
type RoofSegment struct {
	AreaM2         float64 // horizontal projected (ground) area
	PitchDegrees   float64 // slope from horizontal, [0, 90)
	AzimuthDegrees float64 // downslope compass direction, [0, 360)
	Box            *geoutil.BoundingBox

	// Derived during segment processing.
	EaveLengthM float64
	DepthM      float64
}

// BuildingGeometry aggregates the roof segments for one building.
type BuildingGeometry struct {
	Segments        []RoofSegment
	WholeRoofAreaM2 float64 // ground area of the whole roof; 0 when absent
	CenterLatitude  float64 // 0 when absent
}

// Latitude returns the building's center latitude, falling back to
// DefaultLatitude when none was supplied.
func (g BuildingGeometry) Latitude() float64 {
	if g.CenterLatitude == 0 {
		return DefaultLatitude
	}
	return g.CenterLatitude
}

// Classification is a roof-type guess with a confidence in [0, 1]. The same
// shape serves both the externally supplied guess and the revised result.
type Classification struct {
	Type       RoofType `json:"roof_type"`
	Confidence float64  `json:"confidence"`
}

// Range bounds a gutter estimate in feet.
type Range struct {
	Min    int `json:"min"`
	Max    int `json:"max"`
	Target int `json:"target"`
}

// Estimate is the final gutter estimation result.
type Estimate struct {
	EaveLengthFt       float64  `json:"eave_length_ft"`
	TotalGutterFt      int      `json:"total_gutter_ft"`
	WasteFactor        float64  `json:"waste_factor"`
	RoofType           RoofType `json:"roof_type"`
	Confidence         float64  `json:"confidence"`
	Warnings           []string `json:"warnings"`
	EstimatedRange     Range    `json:"estimated_range"`
	DownspoutsEstimate int      `json:"downspouts_estimate"`
	ComplexityFactor   float64  `json:"complexity_factor"`
	PerimeterM         float64  `json:"perimeter_m"`
	FootprintM2        float64  `json:"building_footprint_m2"`
}
