// Package models holds the shared data types. The missing-value sentinel
// throughout is NaN: unavailable fields are never nil or absent, so
// downstream arithmetic propagates missing-ness instead of crashing.
package models

// CanonicalReading is one normalized observation, provider-independent.
// Temperatures in degC, humidity in %, pressures in hPa, wind in km/h,
// direction in degrees, precipitation in mm (cumulative since local
// midnight), solar in W/m2.
type CanonicalReading struct {
	ProviderID string  `json:"provider_id"`
	StationID  string  `json:"station_id"`
	Epoch      int64   `json:"epoch"`
	Temp       float64 `json:"temp"`
	Humidity   float64 `json:"humidity"`
	// PressureMSL and PressureAbs: either may arrive; the missing one is
	// derived from the other during enrichment when elevation is known.
	PressureMSL float64 `json:"pressure_msl"`
	PressureAbs float64 `json:"pressure_abs"`
	WindSpeed   float64 `json:"wind_speed"`
	WindGust    float64 `json:"wind_gust"`
	WindDir     float64 `json:"wind_dir"`
	PrecipTotal float64 `json:"precip_total"`
	Solar       float64 `json:"solar"`
	UV          float64 `json:"uv"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Elevation   float64 `json:"elevation"`
	// Remote two-point pressure reference, when the provider's history
	// endpoint supplies one. NaN otherwise.
	Pressure3hAgo float64 `json:"pressure_3h_ago"`
	Epoch3hAgo    float64 `json:"epoch_3h_ago"`
}

// Station is an inventory row from a provider's station catalog.
type Station struct {
	ProviderID string
	StationID  string
	Name       string
	Latitude   float64
	Longitude  float64
	Elevation  float64
	Active     bool
}

// StationCandidate is a search result from the nearest-station lookup.
// Immutable once constructed.
type StationCandidate struct {
	ProviderID   string  `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	StationID    string  `json:"station_id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lon"`
	Elevation    float64 `json:"elevation"`
	DistanceKM   float64 `json:"distance_km"`
}

// RainRates is the precipitation-intensity tuple derived from the cumulative
// daily counter.
type RainRates struct {
	Instant  float64 `json:"instant_mm_h"`
	Rate1Min float64 `json:"rate_1min_mm_h"`
	Rate5Min float64 `json:"rate_5min_mm_h"`
}

// PressureTrend is the 3-hour pressure delta classification.
type PressureTrend struct {
	Delta       float64 `json:"delta_hpa"`
	RatePerHour float64 `json:"rate_hpa_h"`
	Label       string  `json:"label"`
	Arrow       string  `json:"arrow"`
	Outlook     string  `json:"outlook"`
}

// DailyExtremes holds session-scoped min/max for the current calendar day.
type DailyExtremes struct {
	TempMax float64 `json:"temp_max"`
	TempMin float64 `json:"temp_min"`
	RHMax   float64 `json:"rh_max"`
	RHMin   float64 `json:"rh_min"`
	GustMax float64 `json:"gust_max"`
}

// EnrichedReading is a CanonicalReading plus every derived quantity, as
// consumed by rendering and storage layers.
type EnrichedReading struct {
	CanonicalReading

	DewPoint         float64 `json:"dew_point"`
	SaturationVP     float64 `json:"saturation_vp"`
	VaporPressure    float64 `json:"vapor_pressure"`
	MixingRatioGKg   float64 `json:"mixing_ratio_gkg"`
	SpecificHumidity float64 `json:"specific_humidity"`
	AbsoluteHumidity float64 `json:"absolute_humidity_gm3"`
	PotentialTemp    float64 `json:"potential_temp"`
	VirtualTemp      float64 `json:"virtual_temp"`
	EquivalentTemp   float64 `json:"equivalent_temp"`
	EquivPotential   float64 `json:"equiv_potential_temp"`
	WetBulb          float64 `json:"wet_bulb"`
	AirDensity       float64 `json:"air_density"`
	LCLHeight        float64 `json:"lcl_height_m"`
	ApparentTemp     float64 `json:"apparent_temp"`
	HeatIndex        float64 `json:"heat_index"`

	Rain      RainRates     `json:"rain"`
	RainLabel string        `json:"rain_label"`
	Pressure  PressureTrend `json:"pressure_trend"`
	Extremes  DailyExtremes `json:"daily_extremes"`

	QualityFlags []string `json:"quality_flags,omitempty"`
}
