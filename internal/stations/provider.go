// Package stations implements the multi-provider nearest-station search.
package stations

import (
	"context"
	"sort"

	"github.com/imartinez/iberoweather/internal/models"
)

// Provider searches one network's station catalog by proximity.
type Provider interface {
	ID() string
	Name() string
	SearchNearby(ctx context.Context, lat, lon float64, maxResults int) ([]models.StationCandidate, error)
}

// Catalog supplies a provider's station inventory, typically backed by the
// store.
type Catalog interface {
	StationsByProvider(ctx context.Context, providerID string) ([]models.Station, error)
}

// InventoryProvider is a Provider over a locally held station catalog.
type InventoryProvider struct {
	id      string
	name    string
	catalog Catalog
}

func NewInventoryProvider(id, name string, catalog Catalog) *InventoryProvider {
	return &InventoryProvider{id: id, name: name, catalog: catalog}
}

func (p *InventoryProvider) ID() string   { return p.id }
func (p *InventoryProvider) Name() string { return p.name }

// SearchNearby ranks the catalog by haversine distance to the query point.
func (p *InventoryProvider) SearchNearby(ctx context.Context, lat, lon float64, maxResults int) ([]models.StationCandidate, error) {
	sts, err := p.catalog.StationsByProvider(ctx, p.id)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.StationCandidate, 0, len(sts))
	for _, st := range sts {
		if !st.Active {
			continue
		}
		candidates = append(candidates, models.StationCandidate{
			ProviderID:   p.id,
			ProviderName: p.name,
			StationID:    st.StationID,
			Name:         st.Name,
			Latitude:     st.Latitude,
			Longitude:    st.Longitude,
			Elevation:    st.Elevation,
			DistanceKM:   Haversine(lat, lon, st.Latitude, st.Longitude),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceKM < candidates[j].DistanceKM
	})
	if maxResults > 0 && len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}
