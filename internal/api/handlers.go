package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/imartinez/iberoweather/internal/metrics"
	"github.com/imartinez/iberoweather/internal/models"
	"github.com/imartinez/iberoweather/internal/normalize"
	"github.com/imartinez/iberoweather/internal/stations"
	"github.com/imartinez/iberoweather/internal/trend"
)

// handleIngest accepts POST /api/ingest/{provider} with a raw provider
// payload, normalizes it, enriches it in the caller's session and archives
// the canonical reading.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	providerID := r.URL.Path[len("/api/ingest/"):]
	if providerID == "" || !normalize.Known(providerID) {
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		metrics.PayloadDecodeErrors.WithLabelValues("http").Inc()
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	reading := normalize.Reading(providerID, payload)

	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = r.URL.Query().Get("session")
	}
	if sessionID == "" {
		sessionID = "http:" + providerID
	}
	enriched := s.sessions.Get(sessionID).Enrich(reading, time.Now())

	if err := s.store.InsertReading(reading); err != nil {
		s.logger.Error("archive reading", "provider", providerID, "error", err)
	} else {
		metrics.ReadingsArchived.WithLabelValues(providerID).Inc()
	}
	if s.influx != nil {
		if err := s.influx.Write(sessionID, enriched); err != nil {
			s.logger.Warn("influx write", "error", err)
		}
	}
	metrics.IngestLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(enriched)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	last := s.sessions.Get(sessionID).Last()
	if last == nil {
		http.Error(w, "no readings in session", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(last)
}

type nearResponse struct {
	Latitude  float64                   `json:"lat"`
	Longitude float64                   `json:"lon"`
	Swapped   bool                      `json:"coords_swapped"`
	Stations  []models.StationCandidate `json:"stations"`
}

func (s *Server) handleStationsNear(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "lat and lon parameters required", http.StatusBadRequest)
		return
	}
	maxResults := 10
	if v := r.URL.Query().Get("max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxResults = n
		}
	}

	lat, lon, swapped := stations.RepairCoordOrder(r.Context(), lat, lon, s.registry)
	candidates := s.registry.SearchNearby(r.Context(), lat, lon, maxResults)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(nearResponse{
		Latitude:  lat,
		Longitude: lon,
		Swapped:   swapped,
		Stations:  candidates,
	})
}

// trendField selects which archived column the derivative runs over.
var trendField = map[string]func(models.CanonicalReading) float64{
	"temp":         func(r models.CanonicalReading) float64 { return r.Temp },
	"humidity":     func(r models.CanonicalReading) float64 { return r.Humidity },
	"pressure_msl": func(r models.CanonicalReading) float64 { return r.PressureMSL },
	"pressure_abs": func(r models.CanonicalReading) float64 { return r.PressureAbs },
	"wind_speed":   func(r models.CanonicalReading) float64 { return r.WindSpeed },
	"precip_total": func(r models.CanonicalReading) float64 { return r.PrecipTotal },
	"solar":        func(r models.CanonicalReading) float64 { return r.Solar },
}

type trendResponse struct {
	Field       string          `json:"field"`
	Epochs      []int64         `json:"epochs"`
	Values      []models.Metric `json:"values"`
	Derivatives []models.Metric `json:"derivatives"`
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	providerID := q.Get("provider")
	stationID := q.Get("station")
	if providerID == "" || stationID == "" {
		http.Error(w, "provider and station parameters required", http.StatusBadRequest)
		return
	}

	field := q.Get("field")
	if field == "" {
		field = "temp"
	}
	extract, ok := trendField[field]
	if !ok {
		http.Error(w, "unknown field", http.StatusBadRequest)
		return
	}

	hours := 24
	if v := q.Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}
	intervalMinutes := 10.0
	if v := q.Get("interval"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			intervalMinutes = f
		}
	}

	end := time.Now().Unix()
	startEpoch := end - int64(hours)*3600
	readings, err := s.store.GetReadings(providerID, stationID, startEpoch, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	epochs := make([]int64, len(readings))
	values := make([]float64, len(readings))
	for i, rd := range readings {
		epochs[i] = rd.Epoch
		values[i] = extract(rd)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trendResponse{
		Field:       field,
		Epochs:      epochs,
		Values:      models.Metrics(values),
		Derivatives: models.Metrics(trend.Calculate(values, epochs, intervalMinutes)),
	})
}

func (s *Server) handleExtremes(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sessions.Get(sessionID).Extremes())
}

func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	s.sessions.Reset(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
