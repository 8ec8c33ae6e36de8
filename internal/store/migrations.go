package store

import (
	"fmt"
	"log/slog"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS stations (
    provider_id TEXT NOT NULL,
    station_id TEXT NOT NULL,
    name TEXT,
    latitude REAL,
    longitude REAL,
    elevation REAL,
    active BOOLEAN DEFAULT TRUE,
    PRIMARY KEY (provider_id, station_id)
);

CREATE TABLE IF NOT EXISTS readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    provider_id TEXT NOT NULL,
    station_id TEXT NOT NULL,
    observed_at INTEGER NOT NULL,
    temp REAL,
    humidity REAL,
    pressure_msl REAL,
    pressure_abs REAL,
    wind_speed REAL,
    wind_gust REAL,
    wind_dir REAL,
    precip_total REAL,
    solar REAL,
    uv REAL,
    latitude REAL,
    longitude REAL,
    elevation REAL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(provider_id, station_id, observed_at)
);

CREATE INDEX IF NOT EXISTS idx_readings_station_time
    ON readings(provider_id, station_id, observed_at);
`,
	},
	{
		Version:     2,
		Description: "Track inventory refresh time per provider",
		SQL: `
CREATE TABLE IF NOT EXISTS inventory_meta (
    provider_id TEXT PRIMARY KEY,
    seeded_at DATETIME
);
`,
	},
}

// Migrate applies pending migrations in order, recording each version.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.Version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if applied > 0 {
			continue
		}

		if err := s.applyMigration(m); err != nil {
			return err
		}
		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}

func (s *Store) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("apply migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Description, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}
	return tx.Commit()
}
