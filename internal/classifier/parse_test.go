package classifier

import (
	"testing"

	"github.com/roofsight/roofsight/pkg/gutter"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		roofType   gutter.RoofType
		confidence float64
	}{
		{
			name:       "clean json",
			reply:      `{"roof_type": "hip", "confidence": 0.85}`,
			roofType:   gutter.Hip,
			confidence: 0.85,
		},
		{
			name:       "json embedded in prose",
			reply:      "Based on the imagery:\n{\"roof_type\": \"gable\", \"confidence\": 0.9, \"reasoning\": \"two slopes\"}\nHope that helps.",
			roofType:   gutter.Gable,
			confidence: 0.9,
		},
		{
			name:       "json without confidence defaults",
			reply:      `{"roof_type": "shed"}`,
			roofType:   gutter.Shed,
			confidence: 0.8,
		},
		{
			name:       "keyword scan with confident wording",
			reply:      "This is clearly a gable roof with two main slopes.",
			roofType:   gutter.Gable,
			confidence: 0.9,
		},
		{
			name:       "keyword scan with hedged wording",
			reply:      "The roof appears to be a hip design.",
			roofType:   gutter.Hip,
			confidence: 0.7,
		},
		{
			name:       "keyword scan with uncertain wording",
			reply:      "It is difficult to tell, possibly mansard.",
			roofType:   gutter.Mansard,
			confidence: 0.5,
		},
		{
			name:       "unrecognized text",
			reply:      "I cannot determine the roof style from this data.",
			roofType:   gutter.Unknown,
			confidence: 0.7,
		},
		{
			name:       "invalid type in json falls back to unknown",
			reply:      `{"roof_type": "pagoda", "confidence": 0.9}`,
			roofType:   gutter.Unknown,
			confidence: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReply(tt.reply)
			if got.Type != tt.roofType {
				t.Errorf("Type = %q, expected %q", got.Type, tt.roofType)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Confidence = %.2f, expected %.2f", got.Confidence, tt.confidence)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name       string
		segments   []gutter.RoofSegment
		roofType   gutter.RoofType
		confidence float64
	}{
		{
			name:       "no segments",
			segments:   nil,
			roofType:   gutter.Unknown,
			confidence: 0.3,
		},
		{
			name: "two segments",
			segments: []gutter.RoofSegment{
				{PitchDegrees: 30}, {PitchDegrees: 30},
			},
			roofType:   gutter.Gable,
			confidence: 0.7,
		},
		{
			name: "four segments",
			segments: []gutter.RoofSegment{
				{PitchDegrees: 25}, {PitchDegrees: 25}, {PitchDegrees: 25}, {PitchDegrees: 25},
			},
			roofType:   gutter.Hip,
			confidence: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.segments)
			if got.Type != tt.roofType || got.Confidence != tt.confidence {
				t.Errorf("Fallback = %+v, expected {%s %.1f}", got, tt.roofType, tt.confidence)
			}
		})
	}
}
