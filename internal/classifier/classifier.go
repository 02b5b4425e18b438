// Package classifier obtains a roof-type classification from a vision
// model and reconciles it with the building's segment geometry. The model
// is an OpenAI-compatible chat completions endpoint; the satellite images
// it sees are supplied by the caller as base64 JPEG data.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roofsight/roofsight/pkg/config"
	"github.com/roofsight/roofsight/pkg/gutter"
	"go.uber.org/zap"
)

// maxImages bounds how many images are attached to one model request.
const maxImages = 3

// Client calls the vision model.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	logger     *zap.SugaredLogger
}

// NewClient creates a classification client from the provider configuration.
func NewClient(providers *config.ProvidersData, logger *zap.SugaredLogger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   providers.VisionEndpoint,
		apiKey:     providers.VisionAPIKey,
		model:      providers.VisionModel,
		logger:     logger,
	}
}

// Classify produces a roof-type classification for the building. The
// model's answer is fused with the geometry-derived evidence; when the
// model call fails the geometry fallback is used alone.
func (c *Client) Classify(ctx context.Context, geom gutter.BuildingGeometry, imagesB64 []string) gutter.Classification {
	external, err := c.classifyVision(ctx, geom, imagesB64)
	if err != nil {
		c.logger.Warnf("vision classification failed, falling back to geometry: %v", err)
		return Fallback(geom.Segments)
	}

	fused := gutter.Fuse(external, geom.Segments)
	if fused.Type != external.Type {
		c.logger.Infof("geometry overruled vision classification: %q -> %q", external.Type, fused.Type)
	}
	return fused
}

// Fallback classifies from segment count alone when no model answer is
// available.
func Fallback(segments []gutter.RoofSegment) gutter.Classification {
	if len(segments) == 0 {
		return gutter.Classification{Type: gutter.Unknown, Confidence: 0.3}
	}
	return gutter.Classification{
		Type:       gutter.ClassifyGeometry(segments),
		Confidence: 0.7,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) classifyVision(ctx context.Context, geom gutter.BuildingGeometry, imagesB64 []string) (gutter.Classification, error) {
	if c.apiKey == "" {
		return gutter.Classification{}, fmt.Errorf("no vision API key configured")
	}

	content := []contentPart{{Type: "text", Text: buildPrompt(geom)}}
	for i, img := range imagesB64 {
		if i >= maxImages {
			break
		}
		content = append(content, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:image/jpeg;base64," + img},
		})
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: []contentPart{{
				Type: "text",
				Text: "You are an expert roofing contractor. Classify the roof type from the building data and satellite imagery provided.",
			}}},
			{Role: "user", Content: content},
		},
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		return gutter.Classification{}, fmt.Errorf("error encoding vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return gutter.Classification{}, fmt.Errorf("error creating vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gutter.Classification{}, fmt.Errorf("error calling vision API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gutter.Classification{}, fmt.Errorf("error reading vision response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gutter.Classification{}, fmt.Errorf("vision API returned status %d: %s", resp.StatusCode, body)
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return gutter.Classification{}, fmt.Errorf("error decoding vision response: %w", err)
	}
	if decoded.Error != nil {
		return gutter.Classification{}, fmt.Errorf("vision API error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return gutter.Classification{}, fmt.Errorf("vision API returned no choices")
	}

	reply := decoded.Choices[0].Message.Content
	c.logger.Debugf("vision model reply: %s", reply)
	return ParseReply(reply), nil
}

// buildPrompt summarizes the segment geometry for the model. Segment count
// carries most of the signal; the imagery is a secondary check.
func buildPrompt(geom gutter.BuildingGeometry) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Classify this roof. Segment count is the primary signal: 1 segment = shed or flat, 2-3 = gable, 4-5 = hip, 6+ = complex.\n\n")
	fmt.Fprintf(&buf, "Roof segments: %d\n", len(geom.Segments))
	fmt.Fprintf(&buf, "Whole-roof ground area: %.1f m2\n", geom.WholeRoofAreaM2)
	for i, seg := range geom.Segments {
		fmt.Fprintf(&buf, "Segment %d: pitch %.1f deg, azimuth %.1f deg, area %.1f m2\n",
			i+1, seg.PitchDegrees, seg.AzimuthDegrees, seg.AreaM2)
	}
	fmt.Fprintf(&buf, "\nRespond with only this JSON: {\"roof_type\": \"gable|hip|shed|gambrel|mansard|flat|complex\", \"confidence\": 0.0-1.0}\n")
	return buf.String()
}
