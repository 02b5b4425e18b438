// Package insights provides a client for the Google Solar
// buildingInsights API and maps its roof segment statistics onto the
// estimation core's geometry model.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/roofsight/roofsight/internal/cache"
	"github.com/roofsight/roofsight/pkg/config"
	"github.com/roofsight/roofsight/pkg/geoutil"
	"github.com/roofsight/roofsight/pkg/gutter"
	"go.uber.org/zap"
)

const cacheProvider = "building-insights"

// Client calls the building insights API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	cache      *cache.Cache // may be nil
	logger     *zap.SugaredLogger
}

// NewClient creates a building-insights client. The cache is optional; pass
// nil to fetch on every call.
func NewClient(providers *config.ProvidersData, responseCache *cache.Cache, logger *zap.SugaredLogger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   providers.InsightsEndpoint,
		apiKey:     providers.GoogleAPIKey,
		cache:      responseCache,
		logger:     logger,
	}
}

// LatLng is a coordinate pair in the upstream payload.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SegmentBoundingBox is a segment's lat/lon-aligned extent.
type SegmentBoundingBox struct {
	SW LatLng `json:"sw"`
	NE LatLng `json:"ne"`
}

// SegmentStats carries the area statistics for one roof segment.
type SegmentStats struct {
	AreaMeters2       float64 `json:"areaMeters2"`
	GroundAreaMeters2 float64 `json:"groundAreaMeters2"`
}

// RoofSegmentStats is one planar roof face in the upstream payload.
type RoofSegmentStats struct {
	PitchDegrees   float64             `json:"pitchDegrees"`
	AzimuthDegrees float64             `json:"azimuthDegrees"`
	Stats          SegmentStats        `json:"stats"`
	BoundingBox    *SegmentBoundingBox `json:"boundingBox,omitempty"`
}

// SolarPotential is the roof geometry section of the payload.
type SolarPotential struct {
	RoofSegmentStats []RoofSegmentStats `json:"roofSegmentStats"`
	WholeRoofStats   SegmentStats       `json:"wholeRoofStats"`
}

// BuildingInsightsResponse is the subset of the API response the estimator
// consumes.
type BuildingInsightsResponse struct {
	Name           string         `json:"name"`
	Center         LatLng         `json:"center"`
	SolarPotential SolarPotential `json:"solarPotential"`
}

// Result bundles the mapped geometry with the raw payload for persistence.
type Result struct {
	Geometry gutter.BuildingGeometry
	Raw      json.RawMessage
}

// Fetch retrieves building insights for the coordinates, consulting the
// response cache first when one is configured.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Result, error) {
	cacheKey := fmt.Sprintf("%.6f,%.6f", lat, lon)

	if c.cache != nil {
		var raw []byte
		hit, err := c.cache.Get(cacheProvider, cacheKey, &raw)
		if err != nil {
			c.logger.Warnf("building insights cache read failed: %v", err)
		} else if hit {
			c.logger.Debugf("building insights cache hit for %s", cacheKey)
			return c.decode(raw)
		}
	}

	reqURL := fmt.Sprintf("%s?%s", c.endpoint, url.Values{
		"location.latitude":  {fmt.Sprintf("%.6f", lat)},
		"location.longitude": {fmt.Sprintf("%.6f", lon)},
		"key":                {c.apiKey},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating building insights request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling building insights API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading building insights response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("building insights API returned status %d: %s", resp.StatusCode, body)
	}

	if c.cache != nil {
		if err := c.cache.Put(cacheProvider, cacheKey, body); err != nil {
			c.logger.Warnf("building insights cache write failed: %v", err)
		}
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) (*Result, error) {
	var decoded BuildingInsightsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("error decoding building insights response: %w", err)
	}

	geom := MapGeometry(&decoded)
	c.logger.Debugf("building insights: %d roof segments, %.1fm2 whole-roof area",
		len(geom.Segments), geom.WholeRoofAreaM2)
	if widthM, lengthM, ok := FootprintDimensions(&decoded); ok {
		c.logger.Debugf("building footprint approximately %.1fm x %.1fm", widthM, lengthM)
	}
	return &Result{Geometry: geom, Raw: body}, nil
}

// MapGeometry converts an upstream payload into the estimation core's
// geometry model.
func MapGeometry(resp *BuildingInsightsResponse) gutter.BuildingGeometry {
	geom := gutter.BuildingGeometry{
		WholeRoofAreaM2: resp.SolarPotential.WholeRoofStats.GroundAreaMeters2,
		CenterLatitude:  resp.Center.Latitude,
	}

	for _, seg := range resp.SolarPotential.RoofSegmentStats {
		mapped := gutter.RoofSegment{
			AreaM2:         seg.Stats.GroundAreaMeters2,
			PitchDegrees:   seg.PitchDegrees,
			AzimuthDegrees: seg.AzimuthDegrees,
		}
		if seg.BoundingBox != nil {
			mapped.Box = &geoutil.BoundingBox{
				SouthWestLat: seg.BoundingBox.SW.Latitude,
				SouthWestLon: seg.BoundingBox.SW.Longitude,
				NorthEastLat: seg.BoundingBox.NE.Latitude,
				NorthEastLon: seg.BoundingBox.NE.Longitude,
			}
		}
		geom.Segments = append(geom.Segments, mapped)
	}

	return geom
}

// FootprintDimensions reports the building's approximate footprint from the
// union of segment bounding boxes, for logging and diagnostics.
func FootprintDimensions(resp *BuildingInsightsResponse) (widthM, lengthM float64, ok bool) {
	var union *geoutil.BoundingBox
	for _, seg := range resp.SolarPotential.RoofSegmentStats {
		if seg.BoundingBox == nil {
			continue
		}
		box := geoutil.BoundingBox{
			SouthWestLat: seg.BoundingBox.SW.Latitude,
			SouthWestLon: seg.BoundingBox.SW.Longitude,
			NorthEastLat: seg.BoundingBox.NE.Latitude,
			NorthEastLon: seg.BoundingBox.NE.Longitude,
		}
		if union == nil {
			b := box
			union = &b
			continue
		}
		if box.SouthWestLat < union.SouthWestLat {
			union.SouthWestLat = box.SouthWestLat
		}
		if box.SouthWestLon < union.SouthWestLon {
			union.SouthWestLon = box.SouthWestLon
		}
		if box.NorthEastLat > union.NorthEastLat {
			union.NorthEastLat = box.NorthEastLat
		}
		if box.NorthEastLon > union.NorthEastLon {
			union.NorthEastLon = box.NorthEastLon
		}
	}
	if union == nil {
		return 0, 0, false
	}
	widthM, lengthM = union.Dimensions()
	return widthM, lengthM, true
}
