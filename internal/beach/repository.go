package beach

import "context"

// Repository provides read access to the beach registry.
type Repository interface {
	// List returns all beaches in the registry.
	List(ctx context.Context) ([]Beach, error)

	// Get returns the beach with the given id.
	Get(ctx context.Context, id int) (*Beach, error)
}
