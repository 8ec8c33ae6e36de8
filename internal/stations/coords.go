package stations

import (
	"context"

	"github.com/imartinez/iberoweather/internal/models"
)

// Thresholds for the order-repair disambiguation: only consider swapping
// when the normal order lands implausibly far from any real station, and
// only swap when the swapped order is at least twice as close.
const (
	repairFarKM       = 500.0
	repairImprovement = 0.5
)

// Searcher is the slice of Registry the coordinate repair needs.
type Searcher interface {
	SearchNearby(ctx context.Context, lat, lon float64, maxResults int) []models.StationCandidate
}

func inLatLonRange(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// RepairCoordOrder fixes swapped lat/lon pairs from free-text or GPS input.
// Best-effort heuristic, not a proof: when both orders are valid it prefers
// whichever lands markedly nearer a real station, otherwise it keeps the
// original order. It can disagree with ground truth near the equator or
// prime meridian.
func RepairCoordOrder(ctx context.Context, lat, lon float64, search Searcher) (outLat, outLon float64, swapped bool) {
	// Range-based repairs need no search at all.
	if (lat < -90 || lat > 90) && lon >= -90 && lon <= 90 && lat >= -180 && lat <= 180 {
		return lon, lat, true
	}
	if (lon < -180 || lon > 180) && lat >= -180 && lat <= 180 && lon >= -90 && lon <= 90 {
		return lon, lat, true
	}

	normalOK := inLatLonRange(lat, lon)
	swappedOK := inLatLonRange(lon, lat)

	switch {
	case normalOK && !swappedOK:
		return lat, lon, false
	case swappedOK && !normalOK:
		return lon, lat, true
	case !normalOK && !swappedOK:
		return lat, lon, false
	}

	if search == nil {
		return lat, lon, false
	}

	dNormal := nearestDistance(ctx, search, lat, lon)
	if dNormal > repairFarKM {
		if dSwapped := nearestDistance(ctx, search, lon, lat); dSwapped < dNormal*repairImprovement {
			return lon, lat, true
		}
	}
	return lat, lon, false
}

func nearestDistance(ctx context.Context, search Searcher, lat, lon float64) float64 {
	res := search.SearchNearby(ctx, lat, lon, 1)
	if len(res) == 0 {
		return 1e18
	}
	return res[0].DistanceKM
}
