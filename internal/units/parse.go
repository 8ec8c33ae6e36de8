package units

import (
	"math"
	"strconv"
	"strings"
)

// Literal markers providers use for "no data". Matched case-insensitively
// after trimming.
var noDataMarkers = map[string]bool{
	"":     true,
	"ip":   true, // AEMET: inappreciable precipitation
	"-":    true,
	"--":   true,
	"nan":  true,
	"none": true,
	"null": true,
}

// IsNaN reports whether x is the missing-value sentinel.
func IsNaN(x float64) bool { return x != x }

// ParseNumber extracts a float64 from the loosely-typed values providers
// emit. It tolerates locale comma decimals ("12,4"), trailing parenthetical
// annotations ("37.4(27)" carries the day of month the value occurred on),
// direction/value composites ("99/21.1" keeps the value after the last
// slash), and literal no-data markers. Anything unparseable maps to NaN;
// this function never fails.
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return math.NaN()
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseNumericString(v)
	default:
		return math.NaN()
	}
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	if noDataMarkers[strings.ToLower(s)] {
		return math.NaN()
	}

	// "37.4(27)": the parenthetical is an annotation, not part of the value.
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	// "99/21.1": direction/value composite, the value follows the last slash.
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}

	s = strings.ReplaceAll(s, ",", ".")
	if noDataMarkers[strings.ToLower(s)] {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

