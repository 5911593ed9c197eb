package customer

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the persistence contract for customers.
type CustomerRepository interface {
	// FindByID retrieves a customer by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByUserID retrieves the customer linked to a user identity.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)
}
