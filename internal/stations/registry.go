package stations

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/imartinez/iberoweather/internal/metrics"
	"github.com/imartinez/iberoweather/internal/models"
)

// Registry fans a search out to every registered provider. Providers are
// queried independently; a failing provider contributes nothing to the
// merged result and cannot abort the others. Repeated failures trip a
// per-provider circuit breaker so a broken catalog is skipped cheaply.
type Registry struct {
	providers []Provider
	breakers  map[string]*gobreaker.CircuitBreaker
	logger    *slog.Logger
}

func NewRegistry(logger *slog.Logger, providers ...Provider) *Registry {
	r := &Registry{
		providers: providers,
		breakers:  make(map[string]*gobreaker.CircuitBreaker, len(providers)),
		logger:    logger,
	}
	for _, p := range providers {
		id := p.ID()
		r.breakers[id] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "stations-" + id,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(_ string, from, to gobreaker.State) {
				metrics.BreakerStateChanges.WithLabelValues(id, to.String()).Inc()
				logger.Warn("provider breaker state changed", "provider", id, "from", from.String(), "to", to.String())
			},
		})
	}
	return r
}

// Providers returns the registered provider IDs.
func (r *Registry) Providers() []string {
	ids := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		ids = append(ids, p.ID())
	}
	return ids
}

// SearchNearby queries all providers concurrently, merges their candidates,
// sorts globally by ascending distance and truncates to maxResults.
func (r *Registry) SearchNearby(ctx context.Context, lat, lon float64, maxResults int) []models.StationCandidate {
	var (
		mu     sync.Mutex
		merged []models.StationCandidate
		wg     sync.WaitGroup
	)

	for _, p := range r.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			out, err := r.breakers[p.ID()].Execute(func() (any, error) {
				return p.SearchNearby(ctx, lat, lon, maxResults)
			})
			if err != nil {
				metrics.ProviderSearchErrors.WithLabelValues(p.ID()).Inc()
				r.logger.Warn("provider search failed", "provider", p.ID(), "error", err)
				return
			}
			mu.Lock()
			merged = append(merged, out.([]models.StationCandidate)...)
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].DistanceKM < merged[j].DistanceKM
	})
	if maxResults > 0 && len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	return merged
}
