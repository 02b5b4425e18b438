package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgtype"
	"github.com/roofsight/roofsight/internal/database"
	"github.com/roofsight/roofsight/internal/geocode"
	"github.com/roofsight/roofsight/pkg/gutter"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

type estimateRequest struct {
	Address string   `json:"address"`
	Images  []string `json:"images,omitempty"` // base64 JPEG satellite imagery, optional
}

type coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type estimateResponse struct {
	Success            bool                  `json:"success"`
	RequestID          string                `json:"request_id"`
	Address            string                `json:"address"`
	Coordinates        coordinates           `json:"geocoded_coordinates"`
	RoofClassification gutter.Classification `json:"roof_classification"`
	GutterEstimate     gutter.Estimate       `json:"gutter_estimate"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleEstimate runs the full estimation pipeline for an address
func (h *Handlers) HandleEstimate(w http.ResponseWriter, req *http.Request) {
	c := h.controller

	var body estimateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	requestID := uuid.New()
	logger := c.logger.With("request_id", requestID.String(), "address", body.Address)
	logger.Info("starting gutter estimation")

	lat, lon, err := c.geocoder.Geocode(req.Context(), body.Address)
	if err != nil {
		logger.Errorf("geocoding failed: %v", err)
		status := http.StatusBadGateway
		if errors.Is(err, geocode.ErrNoResults) {
			status = http.StatusNotFound
		}
		writeError(w, status, "failed to geocode address")
		return
	}

	result, err := c.insights.Fetch(req.Context(), lat, lon)
	if err != nil {
		logger.Errorf("building insights fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "failed to fetch building data")
		return
	}

	classification := c.classifier.Classify(req.Context(), result.Geometry, body.Images)
	logger.Infof("roof classified as %q (confidence: %.2f)", classification.Type, classification.Confidence)

	estimate := c.calculator.Estimate(result.Geometry, classification)
	logger.Infof("estimate complete: %dft gutter, %d downspouts", estimate.TotalGutterFt, estimate.DownspoutsEstimate)

	if c.DB != nil {
		record := &database.EstimateRecord{
			RequestID:          requestID,
			Address:            body.Address,
			Latitude:           lat,
			Longitude:          lon,
			RoofType:           string(estimate.RoofType),
			Confidence:         estimate.Confidence,
			EaveLengthFt:       estimate.EaveLengthFt,
			TotalGutterFt:      estimate.TotalGutterFt,
			WasteFactor:        estimate.WasteFactor,
			ComplexityFactor:   estimate.ComplexityFactor,
			DownspoutsEstimate: estimate.DownspoutsEstimate,
			PerimeterM:         estimate.PerimeterM,
			FootprintM2:        estimate.FootprintM2,
		}
		record.InsightsPayload = pgtype.JSONB{Bytes: result.Raw, Status: pgtype.Present}
		if err := c.DB.SaveEstimate(record); err != nil {
			// Persistence is best-effort; the caller still gets the estimate.
			logger.Errorf("failed to persist estimate: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, estimateResponse{
		Success:            true,
		RequestID:          requestID.String(),
		Address:            body.Address,
		Coordinates:        coordinates{Latitude: lat, Longitude: lon},
		RoofClassification: classification,
		GutterEstimate:     estimate,
	})
}

// HandleEstimateHistory returns previously computed estimates for an address
func (h *Handlers) HandleEstimateHistory(w http.ResponseWriter, req *http.Request) {
	if h.controller.DB == nil {
		writeError(w, http.StatusNotImplemented, "estimate persistence is not configured")
		return
	}

	address := mux.Vars(req)["address"]
	limit := 10
	if l := req.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	records, err := h.controller.DB.GetEstimatesByAddress(address, limit)
	if err != nil {
		h.controller.logger.Errorf("estimate history query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to query estimates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"address":   address,
		"estimates": records,
	})
}

// HandleHealth reports service liveness
func (h *Handlers) HandleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}
