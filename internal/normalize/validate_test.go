package normalize

import (
	"math"
	"slices"
	"testing"

	"github.com/imartinez/iberoweather/internal/models"
)

func TestQualityFlags(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		reading models.CanonicalReading
		want    []string
	}{
		{
			"clean reading",
			models.CanonicalReading{Temp: 22, Humidity: 55, WindDir: 270, WindSpeed: 14, PressureMSL: 1015, PressureAbs: 941, Solar: 650, PrecipTotal: 0},
			nil,
		},
		{
			"all missing raises nothing",
			models.CanonicalReading{Temp: nan, Humidity: nan, WindDir: nan, WindSpeed: nan, PressureMSL: nan, PressureAbs: nan, Solar: nan, PrecipTotal: nan},
			nil,
		},
		{
			"impossible temperature",
			models.CanonicalReading{Temp: 85, Humidity: nan, WindDir: nan, WindSpeed: nan, PressureMSL: nan, PressureAbs: nan, Solar: nan, PrecipTotal: nan},
			[]string{FlagTempOutOfRange},
		},
		{
			"humidity over 100",
			models.CanonicalReading{Temp: nan, Humidity: 104, WindDir: nan, WindSpeed: nan, PressureMSL: nan, PressureAbs: nan, Solar: nan, PrecipTotal: nan},
			[]string{FlagHumidityInvalid},
		},
		{
			"either pressure out of range flags once",
			models.CanonicalReading{Temp: nan, Humidity: nan, WindDir: nan, WindSpeed: nan, PressureMSL: 1200, PressureAbs: 700, Solar: nan, PrecipTotal: nan},
			[]string{FlagPressureOutOfRange},
		},
		{
			"negative counters",
			models.CanonicalReading{Temp: nan, Humidity: nan, WindDir: nan, WindSpeed: nan, PressureMSL: nan, PressureAbs: nan, Solar: -5, PrecipTotal: -0.1},
			[]string{FlagSolarNegative, FlagPrecipNegative},
		},
		{
			"multiple flags",
			models.CanonicalReading{Temp: -80, Humidity: 120, WindDir: 400, WindSpeed: 300, PressureMSL: nan, PressureAbs: nan, Solar: nan, PrecipTotal: nan},
			[]string{FlagTempOutOfRange, FlagHumidityInvalid, FlagWindDirInvalid, FlagWindSpeedUnlikely},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QualityFlags(tt.reading)
			if !slices.Equal(got, tt.want) {
				t.Errorf("flags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualityFlagsBoundaryValues(t *testing.T) {
	nan := math.NaN()
	r := models.CanonicalReading{Temp: -50, Humidity: 0, WindDir: 360, WindSpeed: 250, PressureMSL: 850, PressureAbs: 1100, Solar: 0, PrecipTotal: 0}
	if got := QualityFlags(r); len(got) != 0 {
		t.Errorf("boundary values flagged: %v", got)
	}
	r = models.CanonicalReading{Temp: nan, Humidity: nan, WindDir: 360.1, WindSpeed: nan, PressureMSL: nan, PressureAbs: nan, Solar: nan, PrecipTotal: nan}
	if got := QualityFlags(r); len(got) != 1 || got[0] != FlagWindDirInvalid {
		t.Errorf("flags = %v, want [%s]", got, FlagWindDirInvalid)
	}
}
