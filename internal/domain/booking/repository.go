package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByCustomerID retrieves bookings belonging to a customer with pagination.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountOverlapping counts bookings on the car in an active status whose
	// date range overlaps period under the inclusive rule. excludeID, when
	// non-nil, omits that booking (used when re-checking during edits).
	CountOverlapping(ctx context.Context, carID uuid.UUID, period DateRange, excludeID *uuid.UUID) (int64, error)

	// CreateExclusive persists a new booking as a single atomic unit with the
	// availability check: with respect to concurrent creates on the same car,
	// at most one overlapping booking can win. An overlap or a car not in the
	// available fleet status yields a car-unavailable domain error.
	CreateExclusive(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error
}
