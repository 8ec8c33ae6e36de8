package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/imartinez/iberoweather/internal/api"
	"github.com/imartinez/iberoweather/internal/export"
	"github.com/imartinez/iberoweather/internal/ingest"
	"github.com/imartinez/iberoweather/internal/metrics"
	"github.com/imartinez/iberoweather/internal/normalize"
	"github.com/imartinez/iberoweather/internal/session"
	"github.com/imartinez/iberoweather/internal/stations"
	"github.com/imartinez/iberoweather/internal/store"
)

// providerNames maps provider IDs to display names for search results.
var providerNames = map[string]string{
	"aemet":        "AEMET",
	"meteocat":     "Meteocat",
	"euskalmet":    "Euskalmet",
	"meteogalicia": "MeteoGalicia",
	"nws":          "NWS",
	"wu":           "Weather Underground",
}

type cli struct {
	DB       string `kong:"name='db',default='data/iberoweather.db',help='Path to the SQLite database.'"`
	LogLevel  string `kong:"name='log-level',default='info',enum='debug,info,warn,error',help='Log verbosity.'"`
	LogFormat string `kong:"name='log-format',default='text',enum='text,json',help='Log output format.'"`
	Timezone string `kong:"name='timezone',default='Europe/Madrid',help='Timezone for day-boundary logic.'"`

	Serve         serveCmd         `kong:"cmd,default='1',help='Run the HTTP server.'"`
	SeedInventory seedInventoryCmd `kong:"cmd,name='seed-inventory',help='Fetch and load a provider station inventory.'"`
}

type appEnv struct {
	ctx    context.Context
	logger *slog.Logger
	store  *store.Store
	loc    *time.Location
}

type serveCmd struct {
	Port       string `kong:"default='8080',help='HTTP listen port.'"`
	MQTTBroker string `kong:"name='mqtt-broker',env='MQTT_BROKER',help='Optional MQTT broker URL for push ingest.'"`

	InfluxAddr     string `kong:"name='influx-addr',env='INFLUX_ADDR',help='Optional InfluxDB address for export.'"`
	InfluxUser     string `kong:"name='influx-user',env='INFLUX_USER',help='InfluxDB username.'"`
	InfluxPassword string `kong:"name='influx-password',env='INFLUX_PASSWORD',help='InfluxDB password.'"`
	InfluxDatabase string `kong:"name='influx-db',env='INFLUX_DB',default='iberoweather',help='InfluxDB database name.'"`

	RetentionDays int `kong:"name='retention-days',default='30',help='Days of archived readings to keep.'"`
}

func (c *serveCmd) Run(app *appEnv) error {
	sessions := session.NewManager(app.loc)

	providers := make([]stations.Provider, 0, len(providerNames))
	for _, id := range normalize.Providers() {
		name := providerNames[id]
		if name == "" {
			name = id
		}
		providers = append(providers, stations.NewInventoryProvider(id, name, app.store))
	}
	registry := stations.NewRegistry(app.logger, providers...)

	var influx *export.InfluxWriter
	if c.InfluxAddr != "" {
		var err error
		influx, err = export.NewInfluxWriter(c.InfluxAddr, c.InfluxUser, c.InfluxPassword, c.InfluxDatabase)
		if err != nil {
			return fmt.Errorf("influx: %w", err)
		}
		defer influx.Close()
		app.logger.Info("influx export enabled", "addr", c.InfluxAddr, "db", c.InfluxDatabase)
	}

	if c.MQTTBroker != "" {
		handler := func(providerID, sessionID string, payload map[string]any) error {
			if !normalize.Known(providerID) {
				return fmt.Errorf("unknown provider %q", providerID)
			}
			reading := normalize.Reading(providerID, payload)
			enriched := sessions.Get(sessionID).Enrich(reading, time.Now())
			if err := app.store.InsertReading(reading); err != nil {
				return fmt.Errorf("archive reading: %w", err)
			}
			metrics.ReadingsArchived.WithLabelValues(providerID).Inc()
			if influx != nil {
				if err := influx.Write(sessionID, enriched); err != nil {
					app.logger.Warn("influx write", "error", err)
				}
			}
			return nil
		}
		sub := ingest.NewSubscriber(c.MQTTBroker, "iberoweather-server", handler, app.logger)
		if err := sub.Connect(); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
		defer sub.Close()
	}

	go c.housekeeping(app, sessions)

	server := api.NewServer(app.store, sessions, registry, influx, app.logger, c.Port)
	return server.Run(app.ctx)
}

// housekeeping sweeps idle sessions and prunes old archive rows.
func (c *serveCmd) housekeeping(app *appEnv, sessions *session.Manager) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-app.ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(now); n > 0 {
				app.logger.Info("swept idle sessions", "count", n)
			}
			cutoff := now.AddDate(0, 0, -c.RetentionDays)
			if n, err := app.store.PruneReadings(cutoff); err != nil {
				app.logger.Warn("prune readings", "error", err)
			} else if n > 0 {
				app.logger.Info("pruned archived readings", "rows", n)
			}
		}
	}
}

type seedInventoryCmd struct {
	Provider string `kong:"arg,help='Provider ID (aemet, meteocat, euskalmet, meteogalicia, nws).'"`
	URL      string `kong:"help='Inventory JSON URL. Unused for nws, which loads the NOAA FTP index.'"`
}

func (c *seedInventoryCmd) Run(app *appEnv) error {
	if !normalize.Known(c.Provider) {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	seeder := ingest.NewSeeder(app.store, app.logger)

	var (
		n   int
		err error
	)
	if c.Provider == "nws" {
		n, err = seeder.SeedNWS()
	} else {
		if c.URL == "" {
			return errors.New("--url is required for JSON inventories")
		}
		n, err = seeder.SeedFromURL(c.Provider, c.URL)
	}
	if err != nil {
		return fmt.Errorf("seed %s: %w", c.Provider, err)
	}
	app.logger.Info("inventory seeded", "provider", c.Provider, "stations", n)
	return nil
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	}
	h := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h)
}

func main() {
	var cfg cli
	kctx := kong.Parse(&cfg,
		kong.Name("iberoweather"),
		kong.Description("Weather derived-metrics service for Iberian provider networks."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("could not load timezone, using UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	db, err := sql.Open("sqlite", cfg.DB)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	app := &appEnv{ctx: ctx, logger: logger, store: st, loc: loc}
	if err := kctx.Run(app); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
