// Package normalize maps provider-specific raw payloads into canonical
// readings. Field names vary wildly between networks (and between endpoints
// of the same network), so each provider carries an ordered alias list per
// canonical field; the first alias present and parseable wins.
package normalize

import (
	"strings"
	"time"

	"github.com/imartinez/iberoweather/internal/metrics"
	"github.com/imartinez/iberoweather/internal/models"
	"github.com/imartinez/iberoweather/internal/units"
)

type providerSpec struct {
	// aliases maps canonical field name to the ordered list of raw field
	// names to try, matched case-insensitively.
	aliases map[string][]string
	// windMS marks providers reporting wind in m/s rather than km/h.
	windMS bool
}

var providerSpecs = map[string]providerSpec{
	"aemet": {
		windMS: true,
		aliases: map[string][]string{
			"temp":         {"ta", "tpre", "t", "temp"},
			"humidity":     {"hr", "hrel"},
			"pressure_msl": {"pres_nmar", "pnm"},
			"pressure_abs": {"pres"},
			"wind_speed":   {"vv", "ff", "viento", "vel_viento", "velocidad_viento"},
			"wind_gust":    {"vmax", "fx", "racha"},
			"wind_dir":     {"dv", "dd", "dir", "dir_viento", "direccion_viento"},
			"precip_total": {"prec", "precip", "pr", "lluvia"},
			"solar":        {"rs", "radiacion"},
			"uv":           {"uvi", "uv"},
			"elevation":    {"alt", "elev"},
			"lat":          {"lat", "latitud"},
			"lon":          {"lon", "longitud"},
			"station_id":   {"idema"},
			"timestamp":    {"fint", "fecha", "fhora"},
		},
	},
	"meteocat": {
		aliases: map[string][]string{
			"temp":         {"t", "ta", "temp"},
			"humidity":     {"hr", "hrs"},
			"pressure_msl": {"pnm"},
			"pressure_abs": {"p", "pres"},
			"wind_speed":   {"vv10", "vv", "vent"},
			"wind_gust":    {"vvx10", "vvx", "ratxa"},
			"wind_dir":     {"dv10", "dv"},
			"precip_total": {"ppt", "prec"},
			"solar":        {"rs"},
			"uv":           {"uvi"},
			"elevation":    {"altitud", "alt"},
			"lat":          {"latitud", "lat"},
			"lon":          {"longitud", "lon"},
			"station_id":   {"codi", "codiestacio"},
			"timestamp":    {"data", "datalectura"},
		},
	},
	"euskalmet": {
		windMS: true,
		aliases: map[string][]string{
			"temp":         {"temperature", "tmp", "ta"},
			"humidity":     {"humidity", "hum", "hr"},
			"pressure_msl": {"sea_level_pressure", "pnm"},
			"pressure_abs": {"pressure", "pres", "pa"},
			"wind_speed":   {"mean_speed", "wind_speed", "an"},
			"wind_gust":    {"max_speed", "gust", "ra"},
			"wind_dir":     {"mean_direction", "wind_direction", "dv"},
			"precip_total": {"precipitation", "prec", "pp"},
			"solar":        {"irradiance", "radiation", "rs"},
			"uv":           {"uv_index", "uvi"},
			"elevation":    {"altitude", "alt"},
			"lat":          {"latitude", "lat"},
			"lon":          {"longitude", "lon"},
			"station_id":   {"station_id", "stationid", "oid"},
			"timestamp":    {"timestamp", "epoch", "date"},
		},
	},
	"meteogalicia": {
		windMS: true,
		aliases: map[string][]string{
			"temp":         {"ta_avg_1.5m", "ta", "temperatura"},
			"humidity":     {"hr_avg_1.5m", "hr", "humidade"},
			"pressure_msl": {"pr_nmar", "presion_nivel_mar"},
			"pressure_abs": {"pa_avg_1.5m", "pr", "presion"},
			"wind_speed":   {"vv_avg_10m", "vv", "vento"},
			"wind_gust":    {"vv_max_10m", "racha"},
			"wind_dir":     {"dv_avg_10m", "dv", "direccion"},
			"precip_total": {"pp_sum_1.5m", "pp", "chuvia"},
			"solar":        {"rs_avg_1.5m", "rs", "radiacion"},
			"uv":           {"uvi"},
			"elevation":    {"altitude", "alt"},
			"lat":          {"lat"},
			"lon":          {"lon"},
			"station_id":   {"idestacion", "idest"},
			"timestamp":    {"instanteslecturas", "data", "fecha"},
		},
	},
	"nws": {
		windMS: true,
		aliases: map[string][]string{
			"temp":            {"temperature", "temp"},
			"humidity":        {"relativehumidity", "humidity"},
			"pressure_msl":    {"sealevelpressure"},
			"pressure_abs":    {"barometricpressure", "pressure"},
			"wind_speed":      {"windspeed"},
			"wind_gust":       {"windgust"},
			"wind_dir":        {"winddirection"},
			"precip_total":    {"precipitationlastday", "preciptotal"},
			"solar":           {"solarradiation"},
			"uv":              {"uvindex"},
			"elevation":       {"elevation"},
			"lat":             {"lat", "latitude"},
			"lon":             {"lon", "longitude"},
			"station_id":      {"stationidentifier", "station"},
			"timestamp":       {"timestamp", "observed"},
			"pressure_3h_ago": {"pressure_3h_ago", "sealevelpressure_3h_ago"},
			"epoch_3h_ago":    {"epoch_3h_ago"},
		},
	},
	"wu": {
		aliases: map[string][]string{
			"temp":            {"temp", "temperature"},
			"humidity":        {"humidity"},
			"pressure_msl":    {"pressure", "baromin_msl"},
			"wind_speed":      {"windspeed"},
			"wind_gust":       {"windgust"},
			"wind_dir":        {"winddir"},
			"precip_total":    {"preciptotal"},
			"solar":           {"solarradiation"},
			"uv":              {"uv"},
			"elevation":       {"elev", "elevation"},
			"lat":             {"lat"},
			"lon":             {"lon"},
			"station_id":      {"stationid"},
			"timestamp":       {"epoch", "obstimeutc"},
			"pressure_3h_ago": {"pressure_3h_ago"},
			"epoch_3h_ago":    {"epoch_3h_ago"},
		},
	},
}

// Providers returns the provider tags with a registered alias table.
func Providers() []string {
	out := make([]string, 0, len(providerSpecs))
	for id := range providerSpecs {
		out = append(out, id)
	}
	return out
}

// Known reports whether a provider tag has an alias table.
func Known(providerID string) bool {
	_, ok := providerSpecs[strings.ToLower(providerID)]
	return ok
}

// Reading normalizes one raw payload. Every canonical field the payload does
// not supply (or supplies unparseably) is NaN, never absent.
func Reading(providerID string, payload map[string]any) models.CanonicalReading {
	id := strings.ToLower(providerID)
	spec, ok := providerSpecs[id]
	if !ok {
		spec = providerSpecs["wu"]
	}

	flat := flatten(payload)
	num := func(field string) float64 {
		return units.ParseNumber(lookup(flat, spec.aliases[field]))
	}

	r := models.CanonicalReading{
		ProviderID:    id,
		Epoch:         parseEpoch(lookup(flat, spec.aliases["timestamp"])),
		Temp:          num("temp"),
		Humidity:      num("humidity"),
		PressureMSL:   num("pressure_msl"),
		PressureAbs:   num("pressure_abs"),
		WindSpeed:     num("wind_speed"),
		WindGust:      num("wind_gust"),
		WindDir:       num("wind_dir"),
		PrecipTotal:   num("precip_total"),
		Solar:         num("solar"),
		UV:            num("uv"),
		Latitude:      num("lat"),
		Longitude:     num("lon"),
		Elevation:     num("elevation"),
		Pressure3hAgo: num("pressure_3h_ago"),
		Epoch3hAgo:    num("epoch_3h_ago"),
	}

	if sid := lookup(flat, spec.aliases["station_id"]); sid != nil {
		if s, ok := sid.(string); ok {
			r.StationID = strings.TrimSpace(s)
		}
	}

	// Some networks report wind direction as a compass name.
	if units.IsNaN(r.WindDir) {
		if raw, ok := lookup(flat, spec.aliases["wind_dir"]).(string); ok {
			r.WindDir = units.CompassToDegrees(raw)
		}
	}

	if spec.windMS {
		r.WindSpeed = units.MsToKmh(r.WindSpeed)
		r.WindGust = units.MsToKmh(r.WindGust)
	}

	metrics.ReadingsNormalized.WithLabelValues(id).Inc()
	return r
}

// lookup resolves the first present alias, trying exact keys before the
// case-insensitive fold.
func lookup(flat map[string]any, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := flat[alias]; ok && v != nil && v != "" {
			return v
		}
		if v, ok := flat[strings.ToLower(alias)]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

// flatten merges nested objects into one case-insensitive key space. Payload
// depth is shallow in practice (WU nests units under "metric"); inner keys
// win over outer ones so the unit-specific block takes priority.
func flatten(payload map[string]any) map[string]any {
	flat := make(map[string]any, len(payload))
	var walk func(m map[string]any)
	walk = func(m map[string]any) {
		for k, v := range m {
			if child, ok := v.(map[string]any); ok {
				walk(child)
				continue
			}
			flat[strings.ToLower(k)] = v
		}
	}
	walk(payload)
	return flat
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04",
}

// parseEpoch accepts numeric epochs and common provider timestamp layouts;
// unavailable timestamps fall back to the current wall clock, matching how
// live dashboards treat an observation with no usable time.
func parseEpoch(value any) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "UTC"))
		if n := units.ParseNumber(s); !units.IsNaN(n) && n > 1e8 {
			return int64(n)
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Unix()
			}
		}
	}
	return time.Now().Unix()
}
