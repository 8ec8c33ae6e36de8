package models

import (
	"encoding/json"
	"math"
)

// Metric is a float64 whose NaN sentinel serializes as JSON null, and whose
// JSON null deserializes back to NaN. encoding/json rejects NaN outright, so
// every NaN-able field crosses the wire through this type.
type Metric float64

func (m Metric) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(m)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}

// Metrics converts a raw series for serialization.
func Metrics(vals []float64) []Metric {
	out := make([]Metric, len(vals))
	for i, v := range vals {
		out[i] = Metric(v)
	}
	return out
}

type canonicalReadingJSON struct {
	ProviderID    string `json:"provider_id"`
	StationID     string `json:"station_id"`
	Epoch         int64  `json:"epoch"`
	Temp          Metric `json:"temp"`
	Humidity      Metric `json:"humidity"`
	PressureMSL   Metric `json:"pressure_msl"`
	PressureAbs   Metric `json:"pressure_abs"`
	WindSpeed     Metric `json:"wind_speed"`
	WindGust      Metric `json:"wind_gust"`
	WindDir       Metric `json:"wind_dir"`
	PrecipTotal   Metric `json:"precip_total"`
	Solar         Metric `json:"solar"`
	UV            Metric `json:"uv"`
	Latitude      Metric `json:"lat"`
	Longitude     Metric `json:"lon"`
	Elevation     Metric `json:"elevation"`
	Pressure3hAgo Metric `json:"pressure_3h_ago"`
	Epoch3hAgo    Metric `json:"epoch_3h_ago"`
}

func (r CanonicalReading) view() canonicalReadingJSON {
	return canonicalReadingJSON{
		ProviderID:    r.ProviderID,
		StationID:     r.StationID,
		Epoch:         r.Epoch,
		Temp:          Metric(r.Temp),
		Humidity:      Metric(r.Humidity),
		PressureMSL:   Metric(r.PressureMSL),
		PressureAbs:   Metric(r.PressureAbs),
		WindSpeed:     Metric(r.WindSpeed),
		WindGust:      Metric(r.WindGust),
		WindDir:       Metric(r.WindDir),
		PrecipTotal:   Metric(r.PrecipTotal),
		Solar:         Metric(r.Solar),
		UV:            Metric(r.UV),
		Latitude:      Metric(r.Latitude),
		Longitude:     Metric(r.Longitude),
		Elevation:     Metric(r.Elevation),
		Pressure3hAgo: Metric(r.Pressure3hAgo),
		Epoch3hAgo:    Metric(r.Epoch3hAgo),
	}
}

func (v canonicalReadingJSON) reading() CanonicalReading {
	return CanonicalReading{
		ProviderID:    v.ProviderID,
		StationID:     v.StationID,
		Epoch:         v.Epoch,
		Temp:          float64(v.Temp),
		Humidity:      float64(v.Humidity),
		PressureMSL:   float64(v.PressureMSL),
		PressureAbs:   float64(v.PressureAbs),
		WindSpeed:     float64(v.WindSpeed),
		WindGust:      float64(v.WindGust),
		WindDir:       float64(v.WindDir),
		PrecipTotal:   float64(v.PrecipTotal),
		Solar:         float64(v.Solar),
		UV:            float64(v.UV),
		Latitude:      float64(v.Latitude),
		Longitude:     float64(v.Longitude),
		Elevation:     float64(v.Elevation),
		Pressure3hAgo: float64(v.Pressure3hAgo),
		Epoch3hAgo:    float64(v.Epoch3hAgo),
	}
}

func (r CanonicalReading) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

func (r *CanonicalReading) UnmarshalJSON(b []byte) error {
	v := nanSeededCanonical()
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = v.reading()
	return nil
}

// nanSeededCanonical pre-fills every metric with NaN so absent JSON fields
// keep the missing-value sentinel instead of reading as zero.
func nanSeededCanonical() canonicalReadingJSON {
	nan := Metric(math.NaN())
	return canonicalReadingJSON{
		Temp: nan, Humidity: nan, PressureMSL: nan, PressureAbs: nan,
		WindSpeed: nan, WindGust: nan, WindDir: nan, PrecipTotal: nan,
		Solar: nan, UV: nan, Latitude: nan, Longitude: nan, Elevation: nan,
		Pressure3hAgo: nan, Epoch3hAgo: nan,
	}
}

type enrichedReadingJSON struct {
	canonicalReadingJSON

	DewPoint         Metric `json:"dew_point"`
	SaturationVP     Metric `json:"saturation_vp"`
	VaporPressure    Metric `json:"vapor_pressure"`
	MixingRatioGKg   Metric `json:"mixing_ratio_gkg"`
	SpecificHumidity Metric `json:"specific_humidity"`
	AbsoluteHumidity Metric `json:"absolute_humidity_gm3"`
	PotentialTemp    Metric `json:"potential_temp"`
	VirtualTemp      Metric `json:"virtual_temp"`
	EquivalentTemp   Metric `json:"equivalent_temp"`
	EquivPotential   Metric `json:"equiv_potential_temp"`
	WetBulb          Metric `json:"wet_bulb"`
	AirDensity       Metric `json:"air_density"`
	LCLHeight        Metric `json:"lcl_height_m"`
	ApparentTemp     Metric `json:"apparent_temp"`
	HeatIndex        Metric `json:"heat_index"`

	Rain      RainRates     `json:"rain"`
	RainLabel string        `json:"rain_label"`
	Pressure  PressureTrend `json:"pressure_trend"`
	Extremes  DailyExtremes `json:"daily_extremes"`

	QualityFlags []string `json:"quality_flags,omitempty"`
}

func (r EnrichedReading) MarshalJSON() ([]byte, error) {
	return json.Marshal(enrichedReadingJSON{
		canonicalReadingJSON: r.CanonicalReading.view(),
		DewPoint:             Metric(r.DewPoint),
		SaturationVP:         Metric(r.SaturationVP),
		VaporPressure:        Metric(r.VaporPressure),
		MixingRatioGKg:       Metric(r.MixingRatioGKg),
		SpecificHumidity:     Metric(r.SpecificHumidity),
		AbsoluteHumidity:     Metric(r.AbsoluteHumidity),
		PotentialTemp:        Metric(r.PotentialTemp),
		VirtualTemp:          Metric(r.VirtualTemp),
		EquivalentTemp:       Metric(r.EquivalentTemp),
		EquivPotential:       Metric(r.EquivPotential),
		WetBulb:              Metric(r.WetBulb),
		AirDensity:           Metric(r.AirDensity),
		LCLHeight:            Metric(r.LCLHeight),
		ApparentTemp:         Metric(r.ApparentTemp),
		HeatIndex:            Metric(r.HeatIndex),
		Rain:                 r.Rain,
		RainLabel:            r.RainLabel,
		Pressure:             r.Pressure,
		Extremes:             r.Extremes,
		QualityFlags:         r.QualityFlags,
	})
}

func (r *EnrichedReading) UnmarshalJSON(b []byte) error {
	nan := Metric(math.NaN())
	v := enrichedReadingJSON{
		canonicalReadingJSON: nanSeededCanonical(),
		DewPoint:             nan, SaturationVP: nan, VaporPressure: nan,
		MixingRatioGKg: nan, SpecificHumidity: nan, AbsoluteHumidity: nan,
		PotentialTemp: nan, VirtualTemp: nan, EquivalentTemp: nan,
		EquivPotential: nan, WetBulb: nan, AirDensity: nan,
		LCLHeight: nan, ApparentTemp: nan, HeatIndex: nan,
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = EnrichedReading{
		CanonicalReading: v.canonicalReadingJSON.reading(),
		DewPoint:         float64(v.DewPoint),
		SaturationVP:     float64(v.SaturationVP),
		VaporPressure:    float64(v.VaporPressure),
		MixingRatioGKg:   float64(v.MixingRatioGKg),
		SpecificHumidity: float64(v.SpecificHumidity),
		AbsoluteHumidity: float64(v.AbsoluteHumidity),
		PotentialTemp:    float64(v.PotentialTemp),
		VirtualTemp:      float64(v.VirtualTemp),
		EquivalentTemp:   float64(v.EquivalentTemp),
		EquivPotential:   float64(v.EquivPotential),
		WetBulb:          float64(v.WetBulb),
		AirDensity:       float64(v.AirDensity),
		LCLHeight:        float64(v.LCLHeight),
		ApparentTemp:     float64(v.ApparentTemp),
		HeatIndex:        float64(v.HeatIndex),
		Rain:             v.Rain,
		RainLabel:        v.RainLabel,
		Pressure:         v.Pressure,
		Extremes:         v.Extremes,
		QualityFlags:     v.QualityFlags,
	}
	return nil
}

type rainRatesJSON struct {
	Instant  Metric `json:"instant_mm_h"`
	Rate1Min Metric `json:"rate_1min_mm_h"`
	Rate5Min Metric `json:"rate_5min_mm_h"`
}

func (r RainRates) MarshalJSON() ([]byte, error) {
	return json.Marshal(rainRatesJSON{Metric(r.Instant), Metric(r.Rate1Min), Metric(r.Rate5Min)})
}

func (r *RainRates) UnmarshalJSON(b []byte) error {
	nan := Metric(math.NaN())
	v := rainRatesJSON{nan, nan, nan}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = RainRates{float64(v.Instant), float64(v.Rate1Min), float64(v.Rate5Min)}
	return nil
}

type pressureTrendJSON struct {
	Delta       Metric `json:"delta_hpa"`
	RatePerHour Metric `json:"rate_hpa_h"`
	Label       string `json:"label"`
	Arrow       string `json:"arrow"`
	Outlook     string `json:"outlook"`
}

func (t PressureTrend) MarshalJSON() ([]byte, error) {
	return json.Marshal(pressureTrendJSON{Metric(t.Delta), Metric(t.RatePerHour), t.Label, t.Arrow, t.Outlook})
}

func (t *PressureTrend) UnmarshalJSON(b []byte) error {
	v := pressureTrendJSON{Delta: Metric(math.NaN()), RatePerHour: Metric(math.NaN())}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = PressureTrend{float64(v.Delta), float64(v.RatePerHour), v.Label, v.Arrow, v.Outlook}
	return nil
}

type dailyExtremesJSON struct {
	TempMax Metric `json:"temp_max"`
	TempMin Metric `json:"temp_min"`
	RHMax   Metric `json:"rh_max"`
	RHMin   Metric `json:"rh_min"`
	GustMax Metric `json:"gust_max"`
}

func (e DailyExtremes) MarshalJSON() ([]byte, error) {
	return json.Marshal(dailyExtremesJSON{Metric(e.TempMax), Metric(e.TempMin), Metric(e.RHMax), Metric(e.RHMin), Metric(e.GustMax)})
}

func (e *DailyExtremes) UnmarshalJSON(b []byte) error {
	nan := Metric(math.NaN())
	v := dailyExtremesJSON{nan, nan, nan, nan, nan}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = DailyExtremes{float64(v.TempMax), float64(v.TempMin), float64(v.RHMax), float64(v.RHMin), float64(v.GustMax)}
	return nil
}

type stationCandidateJSON struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	StationID    string `json:"station_id"`
	Name         string `json:"name"`
	Latitude     Metric `json:"lat"`
	Longitude    Metric `json:"lon"`
	Elevation    Metric `json:"elevation"`
	DistanceKM   Metric `json:"distance_km"`
}

func (c StationCandidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(stationCandidateJSON{
		ProviderID:   c.ProviderID,
		ProviderName: c.ProviderName,
		StationID:    c.StationID,
		Name:         c.Name,
		Latitude:     Metric(c.Latitude),
		Longitude:    Metric(c.Longitude),
		Elevation:    Metric(c.Elevation),
		DistanceKM:   Metric(c.DistanceKM),
	})
}

func (c *StationCandidate) UnmarshalJSON(b []byte) error {
	nan := Metric(math.NaN())
	v := stationCandidateJSON{Latitude: nan, Longitude: nan, Elevation: nan, DistanceKM: nan}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = StationCandidate{
		ProviderID:   v.ProviderID,
		ProviderName: v.ProviderName,
		StationID:    v.StationID,
		Name:         v.Name,
		Latitude:     float64(v.Latitude),
		Longitude:    float64(v.Longitude),
		Elevation:    float64(v.Elevation),
		DistanceKM:   float64(v.DistanceKM),
	}
	return nil
}
