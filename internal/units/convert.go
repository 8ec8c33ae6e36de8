package units

import (
	"math"
	"strings"
)

// MsToKmh converts wind speed from m/s to km/h, propagating NaN.
func MsToKmh(ms float64) float64 {
	if IsNaN(ms) {
		return math.NaN()
	}
	return ms * 3.6
}

// compassPoints lists the 16-point rose clockwise from north. Degrees are the
// bin centers, 22.5 apart.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassAliases maps direction names to bin index. Spanish abbreviations use
// O (oeste) for west; full names cover what the regional providers emit.
var compassAliases = map[string]int{
	// Spanish 16-point abbreviations.
	"SSO": 9, "SO": 10, "OSO": 11, "O": 12, "ONO": 13, "NO": 14, "NNO": 15,
	// Spanish full names.
	"NORTE": 0, "NORESTE": 2, "NORDESTE": 2, "ESTE": 4,
	"SURESTE": 6, "SUDESTE": 6, "SUR": 8,
	"SUROESTE": 10, "SUDOESTE": 10, "OESTE": 12, "NOROESTE": 14,
	// English full names.
	"NORTH": 0, "NORTHEAST": 2, "EAST": 4, "SOUTHEAST": 6,
	"SOUTH": 8, "SOUTHWEST": 10, "WEST": 12, "NORTHWEST": 14,
}

// CompassToDegrees maps a 16-point compass name (English or Spanish) to its
// bin center in degrees. Unknown names map to NaN.
func CompassToDegrees(name string) float64 {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return math.NaN()
	}
	for i, p := range compassPoints {
		if key == p {
			return float64(i) * 22.5
		}
	}
	if i, ok := compassAliases[key]; ok {
		return float64(i) * 22.5
	}
	return math.NaN()
}

// DegreesToCompass maps a bearing to the nearest 16-point compass name.
func DegreesToCompass(deg float64) string {
	if IsNaN(deg) {
		return ""
	}
	deg = math.Mod(math.Mod(deg, 360)+360, 360)
	i := int((deg+11.25)/22.5) % 16
	return compassPoints[i]
}
