package car

import (
	"context"

	"github.com/google/uuid"
)

// CarRepository defines the persistence contract for fleet cars. The booking
// core only reads cars; fleet CRUD is owned by an external admin surface.
type CarRepository interface {
	// FindByID retrieves a car by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// List retrieves cars with pagination, optionally restricted to the
	// available fleet status.
	List(ctx context.Context, onlyAvailable bool, page, limit int) ([]*Car, int64, error)
}
