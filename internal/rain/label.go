package rain

import "math"

// Intensity thresholds in mm/h, ascending. A rate below the threshold takes
// the corresponding label.
const (
	ThresholdTrace         = 0.4
	ThresholdVeryLight     = 1.0
	ThresholdLight         = 2.5
	ThresholdModerateLight = 6.5
	ThresholdModerate      = 16.0
	ThresholdHeavy         = 40.0
	ThresholdVeryHeavy     = 100.0
)

// IntensityLabel maps a rate in mm/h to a descriptive severity label.
// Non-positive or NaN rates read as no precipitation.
func IntensityLabel(rateMMH float64) string {
	switch {
	case math.IsNaN(rateMMH) || rateMMH <= 0:
		return "No precipitation"
	case rateMMH < ThresholdTrace:
		return "Trace precipitation"
	case rateMMH < ThresholdVeryLight:
		return "Very light rain"
	case rateMMH < ThresholdLight:
		return "Light rain"
	case rateMMH < ThresholdModerateLight:
		return "Moderately light rain"
	case rateMMH < ThresholdModerate:
		return "Moderate rain"
	case rateMMH < ThresholdHeavy:
		return "Heavy rain"
	case rateMMH < ThresholdVeryHeavy:
		return "Very heavy rain"
	default:
		return "Torrential rain"
	}
}
