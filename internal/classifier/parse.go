package classifier

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/roofsight/roofsight/pkg/gutter"
)

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ParseReply extracts a classification from a model reply. A JSON object in
// the reply is preferred; otherwise the text is scanned for a known roof
// type, with confidence inferred from the model's wording.
func ParseReply(reply string) gutter.Classification {
	if match := jsonBlock.FindString(reply); match != "" {
		var parsed struct {
			RoofType   string   `json:"roof_type"`
			Confidence *float64 `json:"confidence"`
		}
		if err := json.Unmarshal([]byte(match), &parsed); err == nil && parsed.RoofType != "" {
			confidence := 0.8
			if parsed.Confidence != nil {
				confidence = *parsed.Confidence
			}
			return gutter.Classification{
				Type:       gutter.ParseRoofType(parsed.RoofType),
				Confidence: confidence,
			}
		}
	}

	lower := strings.ToLower(reply)

	foundType := gutter.Unknown
	for _, rt := range []gutter.RoofType{gutter.Flat, gutter.Shed, gutter.Gable, gutter.Gambrel, gutter.Hip, gutter.Mansard, gutter.Complex} {
		if strings.Contains(lower, string(rt)) {
			foundType = rt
			break
		}
	}

	confidence := 0.7
	switch {
	case strings.Contains(lower, "confident") || strings.Contains(lower, "clear"):
		confidence = 0.9
	case strings.Contains(lower, "appears") || strings.Contains(lower, "seems"):
		confidence = 0.7
	case strings.Contains(lower, "unclear") || strings.Contains(lower, "difficult"):
		confidence = 0.5
	}

	return gutter.Classification{Type: foundType, Confidence: confidence}
}
