// Package ingest brings data into the system: one-shot station inventory
// seeding and the optional MQTT payload intake. Polling and retry policy for
// live observations belong to external collaborators, not here.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/imartinez/iberoweather/internal/metrics"
	"github.com/imartinez/iberoweather/internal/models"
	"github.com/imartinez/iberoweather/internal/units"
)

// StationWriter is the slice of the store the seeder needs.
type StationWriter interface {
	UpsertStation(models.Station) error
	MarkInventorySeeded(providerID string, at time.Time) error
}

// Seeder fetches provider station catalogs and loads them into the store.
type Seeder struct {
	store  StationWriter
	client *http.Client
	logger *slog.Logger
}

func NewSeeder(store StationWriter, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// SeedFromURL fetches a JSON station inventory and upserts every entry under
// the given provider tag. Transient HTTP failures are retried with
// exponential backoff; client errors are not.
func (s *Seeder) SeedFromURL(providerID, url string) (int, error) {
	var body []byte
	operation := func() error {
		resp, err := s.client.Get(url)
		if err != nil {
			return fmt.Errorf("fetch inventory: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("inventory fetch: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("inventory fetch: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read inventory body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return 0, err
	}

	sts, err := ParseInventoryJSON(providerID, body)
	if err != nil {
		return 0, err
	}
	return s.load(providerID, sts)
}

func (s *Seeder) load(providerID string, sts []models.Station) (int, error) {
	count := 0
	for _, st := range sts {
		if err := s.store.UpsertStation(st); err != nil {
			return count, fmt.Errorf("upsert station %s/%s: %w", st.ProviderID, st.StationID, err)
		}
		metrics.InventoryStationsSeeded.WithLabelValues(providerID).Inc()
		count++
	}
	if err := s.store.MarkInventorySeeded(providerID, time.Now()); err != nil {
		return count, err
	}
	s.logger.Info("inventory seeded", "provider", providerID, "stations", count)
	return count, nil
}

// ParseInventoryJSON decodes a station inventory document. Both a bare array
// and an object with a "stations"/"estaciones" list are accepted, and field
// names follow the usual provider variations.
func ParseInventoryJSON(providerID string, body []byte) ([]models.Station, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, key := range []string{"stations", "estaciones", "data", "items"} {
			if list, ok := v[key].([]any); ok {
				items = list
				break
			}
		}
	}
	if items == nil {
		return nil, fmt.Errorf("decode inventory: no station list found")
	}

	var out []models.Station
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		st := models.Station{
			ProviderID: providerID,
			StationID:  firstString(m, "id", "idema", "codi", "station_id", "stationId", "oid"),
			Name:       firstString(m, "name", "nombre", "nom", "ubi"),
			Latitude:   units.ParseNumber(firstValue(m, "lat", "latitud", "latitude")),
			Longitude:  units.ParseNumber(firstValue(m, "lon", "longitud", "longitude")),
			Elevation:  units.ParseNumber(firstValue(m, "alt", "altitud", "elevation", "elev")),
			Active:     true,
		}
		if st.StationID == "" || units.IsNaN(st.Latitude) || units.IsNaN(st.Longitude) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	if v, ok := firstValue(m, keys...).(string); ok {
		return v
	}
	return ""
}
