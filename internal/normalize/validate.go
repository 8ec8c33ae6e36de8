package normalize

import (
	"github.com/imartinez/iberoweather/internal/models"
	"github.com/imartinez/iberoweather/internal/units"
)

// Range sanity flags. These mark suspicious values without rejecting the
// reading; data-quality problems are never errors here.
const (
	FlagTempOutOfRange     = "temp_out_of_range"
	FlagHumidityInvalid    = "humidity_invalid"
	FlagWindDirInvalid     = "wind_dir_invalid"
	FlagWindSpeedUnlikely  = "wind_speed_unlikely"
	FlagPressureOutOfRange = "pressure_out_of_range"
	FlagSolarNegative      = "solar_negative"
	FlagPrecipNegative     = "precip_negative"
)

// QualityFlags returns the range flags that apply to a reading. NaN fields
// are simply missing and raise no flags.
func QualityFlags(r models.CanonicalReading) []string {
	var flags []string

	if !units.IsNaN(r.Temp) && (r.Temp < -50 || r.Temp > 60) {
		flags = append(flags, FlagTempOutOfRange)
	}
	if !units.IsNaN(r.Humidity) && (r.Humidity < 0 || r.Humidity > 100) {
		flags = append(flags, FlagHumidityInvalid)
	}
	if !units.IsNaN(r.WindDir) && (r.WindDir < 0 || r.WindDir > 360) {
		flags = append(flags, FlagWindDirInvalid)
	}
	if !units.IsNaN(r.WindSpeed) && (r.WindSpeed < 0 || r.WindSpeed > 250) {
		flags = append(flags, FlagWindSpeedUnlikely)
	}
	for _, p := range []float64{r.PressureMSL, r.PressureAbs} {
		if !units.IsNaN(p) && (p < 850 || p > 1100) {
			flags = append(flags, FlagPressureOutOfRange)
			break
		}
	}
	if !units.IsNaN(r.Solar) && r.Solar < 0 {
		flags = append(flags, FlagSolarNegative)
	}
	if !units.IsNaN(r.PrecipTotal) && r.PrecipTotal < 0 {
		flags = append(flags, FlagPrecipNegative)
	}
	return flags
}
