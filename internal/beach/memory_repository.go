package beach

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository seeded
// with a static registry. The registry is reference data that changes on
// deploys, not at runtime, so a seeded in-memory copy is the production
// implementation.
type InMemoryRepository struct {
	mu      sync.RWMutex
	beaches []Beach
}

// NewInMemoryRepository creates a repository holding the given beaches.
func NewInMemoryRepository(beaches []Beach) *InMemoryRepository {
	cpy := make([]Beach, len(beaches))
	copy(cpy, beaches)
	return &InMemoryRepository{beaches: cpy}
}

// NewDefaultRepository creates a repository seeded with the San Diego
// regional registry.
func NewDefaultRepository() *InMemoryRepository {
	return NewInMemoryRepository(DefaultRegistry())
}

// DefaultRegistry returns the built-in San Diego beach registry.
func DefaultRegistry() []Beach {
	return []Beach{
		{ID: 1, Name: "Imperial Beach", Lat: 32.5784, Lon: -117.1331, Agency: "City of Imperial Beach", GeomID: "IB", SouthBay: true},
		{ID: 2, Name: "Coronado Beach", Lat: 32.6840, Lon: -117.1830, Agency: "City of Coronado", GeomID: "COR", SouthBay: true},
		{ID: 3, Name: "Silver Strand", Lat: 32.6300, Lon: -117.1410, Agency: "California State Parks", GeomID: "COR", SouthBay: true},
		{ID: 4, Name: "Point Loma", Lat: 32.6735, Lon: -117.2425, Agency: "City of San Diego", GeomID: "PL"},
		{ID: 5, Name: "Ocean Beach", Lat: 32.7495, Lon: -117.2520, Agency: "City of San Diego", GeomID: "OB"},
		{ID: 6, Name: "Mission Beach", Lat: 32.7707, Lon: -117.2520, Agency: "City of San Diego", GeomID: "MB"},
		{ID: 7, Name: "La Jolla Shores", Lat: 32.8570, Lon: -117.2570, Agency: "City of San Diego", GeomID: "LJS"},
	}
}

// List returns a copy of all beaches.
func (r *InMemoryRepository) List(_ context.Context) ([]Beach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cpy := make([]Beach, len(r.beaches))
	copy(cpy, r.beaches)
	return cpy, nil
}

// Get returns the beach with the given id.
func (r *InMemoryRepository) Get(_ context.Context, id int) (*Beach, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.beaches {
		if b.ID == id {
			cpy := b
			return &cpy, nil
		}
	}
	return nil, ErrBeachNotFound
}
