package customer

import (
	"time"

	"github.com/driveline/service-rental/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer links an authenticated user identity to booking ownership. The
// profile itself (addresses, licences) is managed by the external account
// service; this service only needs the user linkage and contact details for
// notifications.
type Customer struct {
	id        uuid.UUID
	userID    uuid.UUID
	name      string
	email     string
	createdAt time.Time
}

// NewCustomer creates a new Customer for the given user identity.
func NewCustomer(userID uuid.UUID, name, email string) (*Customer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user ID is required")
	}
	if email == "" {
		return nil, shared.NewValidationError("email is required")
	}
	return &Customer{
		id:        uuid.New(),
		userID:    userID,
		name:      name,
		email:     email,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructCustomer rebuilds a Customer from persistence data.
func ReconstructCustomer(id, userID uuid.UUID, name, email string, createdAt time.Time) *Customer {
	return &Customer{
		id:        id,
		userID:    userID,
		name:      name,
		email:     email,
		createdAt: createdAt,
	}
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() uuid.UUID { return c.id }

// UserID returns the linked user identity.
func (c *Customer) UserID() uuid.UUID { return c.userID }

// Name returns the customer's display name.
func (c *Customer) Name() string { return c.name }

// Email returns the customer's contact email.
func (c *Customer) Email() string { return c.email }

// CreatedAt returns the creation timestamp.
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
