// Package store persists station catalogs and the bounded canonical-reading
// archive that feeds the trend endpoint.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/imartinez/iberoweather/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertStation inserts or refreshes one inventory row.
func (s *Store) UpsertStation(st models.Station) error {
	_, err := s.db.Exec(`
		INSERT INTO stations (provider_id, station_id, name, latitude, longitude, elevation, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider_id, station_id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			elevation = excluded.elevation,
			active = excluded.active
	`, st.ProviderID, st.StationID, st.Name, st.Latitude, st.Longitude, st.Elevation, st.Active)
	return err
}

// StationsByProvider returns one provider's full catalog.
func (s *Store) StationsByProvider(ctx context.Context, providerID string) ([]models.Station, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider_id, station_id, name, latitude, longitude, elevation, active
		FROM stations WHERE provider_id = ?
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ProviderID, &st.StationID, &st.Name, &st.Latitude, &st.Longitude, &st.Elevation, &st.Active); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// StationCount reports inventory size per provider.
func (s *Store) StationCount(providerID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stations WHERE provider_id = ?`, providerID).Scan(&n)
	return n, err
}

// MarkInventorySeeded records when a provider's catalog was last refreshed.
func (s *Store) MarkInventorySeeded(providerID string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO inventory_meta (provider_id, seeded_at) VALUES (?, ?)
		ON CONFLICT(provider_id) DO UPDATE SET seeded_at = excluded.seeded_at
	`, providerID, at.UTC())
	return err
}

// InsertReading archives one canonical reading. Duplicate observation times
// for the same station are ignored.
func (s *Store) InsertReading(r models.CanonicalReading) error {
	_, err := s.db.Exec(`
		INSERT INTO readings (provider_id, station_id, observed_at, temp, humidity, pressure_msl, pressure_abs, wind_speed, wind_gust, wind_dir, precip_total, solar, uv, latitude, longitude, elevation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider_id, station_id, observed_at) DO NOTHING
	`, r.ProviderID, r.StationID, r.Epoch,
		nullable(r.Temp), nullable(r.Humidity), nullable(r.PressureMSL), nullable(r.PressureAbs),
		nullable(r.WindSpeed), nullable(r.WindGust), nullable(r.WindDir), nullable(r.PrecipTotal),
		nullable(r.Solar), nullable(r.UV), nullable(r.Latitude), nullable(r.Longitude), nullable(r.Elevation))
	return err
}

// GetReadings returns the archived series for one station between start and
// end epochs, time-ascending.
func (s *Store) GetReadings(providerID, stationID string, startEpoch, endEpoch int64) ([]models.CanonicalReading, error) {
	rows, err := s.db.Query(`
		SELECT provider_id, station_id, observed_at, temp, humidity, pressure_msl, pressure_abs, wind_speed, wind_gust, wind_dir, precip_total, solar, uv, latitude, longitude, elevation
		FROM readings
		WHERE provider_id = ? AND station_id = ? AND observed_at >= ? AND observed_at <= ?
		ORDER BY observed_at ASC
	`, providerID, stationID, startEpoch, endEpoch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CanonicalReading
	for rows.Next() {
		var r models.CanonicalReading
		var temp, hum, pMSL, pAbs, wSpd, wGst, wDir, prec, solar, uv, lat, lon, elev sql.NullFloat64
		if err := rows.Scan(&r.ProviderID, &r.StationID, &r.Epoch,
			&temp, &hum, &pMSL, &pAbs, &wSpd, &wGst, &wDir, &prec, &solar, &uv, &lat, &lon, &elev); err != nil {
			return nil, err
		}
		r.Temp = fromNullable(temp)
		r.Humidity = fromNullable(hum)
		r.PressureMSL = fromNullable(pMSL)
		r.PressureAbs = fromNullable(pAbs)
		r.WindSpeed = fromNullable(wSpd)
		r.WindGust = fromNullable(wGst)
		r.WindDir = fromNullable(wDir)
		r.PrecipTotal = fromNullable(prec)
		r.Solar = fromNullable(solar)
		r.UV = fromNullable(uv)
		r.Latitude = fromNullable(lat)
		r.Longitude = fromNullable(lon)
		r.Elevation = fromNullable(elev)
		r.Pressure3hAgo = math.NaN()
		r.Epoch3hAgo = math.NaN()
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneReadings drops archive rows observed before the cutoff and returns
// how many were removed. The archive is a bounded working set, not a
// time-series database.
func (s *Store) PruneReadings(before time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM readings WHERE observed_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune readings: %w", err)
	}
	return res.RowsAffected()
}

// nullable maps the NaN sentinel to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// fromNullable maps SQL NULL back to the NaN sentinel.
func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
