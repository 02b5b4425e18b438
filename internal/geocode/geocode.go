// Package geocode provides a client for the Google Geocoding API, turning
// street addresses into coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/roofsight/roofsight/pkg/config"
	"go.uber.org/zap"
)

// ErrNoResults indicates the geocoder returned no matches for the address.
var ErrNoResults = errors.New("no geocoding results for address")

// Client calls the geocoding API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *zap.SugaredLogger
}

// NewClient creates a geocoding client from the provider configuration.
func NewClient(providers *config.ProvidersData, logger *zap.SugaredLogger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   providers.GeocodeEndpoint,
		apiKey:     providers.GoogleAPIKey,
		logger:     logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to latitude and longitude.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lon float64, err error) {
	reqURL := fmt.Sprintf("%s?%s", c.endpoint, url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("error creating geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("error calling geocoding API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, 0, fmt.Errorf("error decoding geocoding response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return 0, 0, fmt.Errorf("%w: %q (status: %s)", ErrNoResults, address, decoded.Status)
	}

	loc := decoded.Results[0].Geometry.Location
	c.logger.Debugf("geocoded %q to %.6f,%.6f", address, loc.Lat, loc.Lng)
	return loc.Lat, loc.Lng, nil
}
