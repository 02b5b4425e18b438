package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roofsight/roofsight/pkg/config"
	"go.uber.org/zap"
)

func testClient(endpoint string) *Client {
	return NewClient(&config.ProvidersData{
		GeocodeEndpoint: endpoint,
		GoogleAPIKey:    "test-key",
	}, zap.NewNop().Sugar())
}

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "123 Main St" {
			t.Errorf("address param = %q", got)
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 39.7392, "lng": -104.9903}}}]
		}`))
	}))
	defer srv.Close()

	lat, lon, err := testClient(srv.URL).Geocode(context.Background(), "123 Main St")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if lat != 39.7392 || lon != -104.9903 {
		t.Errorf("got %.4f,%.4f", lat, lon)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL).Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL).Geocode(context.Background(), "123 Main St")
	if err == nil {
		t.Error("expected error for upstream 500")
	}
}
