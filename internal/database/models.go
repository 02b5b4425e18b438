package database

import (
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"gorm.io/gorm"
)

// EstimateRecord is one completed gutter estimate
type EstimateRecord struct {
	gorm.Model

	RequestID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Address   string    `gorm:"index;not null"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`

	RoofType   string  `gorm:"not null"`
	Confidence float64 `gorm:"not null"`

	EaveLengthFt       float64
	TotalGutterFt      int
	WasteFactor        float64
	ComplexityFactor   float64
	DownspoutsEstimate int
	PerimeterM         float64
	FootprintM2        float64

	// Raw building-insights payload the estimate was computed from
	InsightsPayload pgtype.JSONB `gorm:"type:jsonb;default:'{}';not null"`
}

// TableName specifies the table name for EstimateRecord
func (EstimateRecord) TableName() string {
	return "gutter_estimates"
}
