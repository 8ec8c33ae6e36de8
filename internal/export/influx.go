// Package export ships enriched readings to an optional InfluxDB sink.
package export

import (
	"fmt"
	"math"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/imartinez/iberoweather/internal/models"
)

const measurement = "enriched_reading"

// InfluxWriter writes one point per enriched reading. NaN fields are
// omitted; Influx has no NaN and absence is the equivalent sentinel there.
type InfluxWriter struct {
	client   influx.Client
	database string
}

func NewInfluxWriter(addr, username, password, database string) (*InfluxWriter, error) {
	c, err := influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("influx client: %w", err)
	}
	return &InfluxWriter{client: c, database: database}, nil
}

// Write sends one reading.
func (w *InfluxWriter) Write(sessionID string, r models.EnrichedReading) error {
	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  w.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("influx batch: %w", err)
	}

	tags := map[string]string{
		"provider": r.ProviderID,
		"session":  sessionID,
	}
	if r.StationID != "" {
		tags["station"] = r.StationID
	}

	fields := map[string]any{}
	add := func(name string, v float64) {
		if !math.IsNaN(v) {
			fields[name] = v
		}
	}
	add("temp", r.Temp)
	add("humidity", r.Humidity)
	add("pressure_msl", r.PressureMSL)
	add("pressure_abs", r.PressureAbs)
	add("wind_speed", r.WindSpeed)
	add("wind_gust", r.WindGust)
	add("wind_dir", r.WindDir)
	add("precip_total", r.PrecipTotal)
	add("dew_point", r.DewPoint)
	add("wet_bulb", r.WetBulb)
	add("potential_temp", r.PotentialTemp)
	add("equiv_potential_temp", r.EquivPotential)
	add("air_density", r.AirDensity)
	add("rain_instant", r.Rain.Instant)
	add("rain_rate_5min", r.Rain.Rate5Min)
	add("pressure_delta_3h", r.Pressure.Delta)
	if len(fields) == 0 {
		return nil
	}

	pt, err := influx.NewPoint(measurement, tags, fields, time.Unix(r.Epoch, 0))
	if err != nil {
		return fmt.Errorf("influx point: %w", err)
	}
	bp.AddPoint(pt)
	return w.client.Write(bp)
}

// Close releases the underlying HTTP client.
func (w *InfluxWriter) Close() error {
	return w.client.Close()
}
