package booking

import (
	"time"

	"github.com/driveline/service-rental/internal/domain/shared"
	"github.com/google/uuid"
)

// Booking is the aggregate root for the rental booking domain. The total
// price is computed at creation and immutable thereafter; all status changes
// go through the transition methods, never direct field writes.
type Booking struct {
	id            uuid.UUID
	carID         uuid.UUID
	customerID    uuid.UUID
	period        DateRange
	totalCents    int64
	status        BookingStatus
	paymentStatus PaymentStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate in the pending/unpaid state.
func NewBooking(carID, customerID uuid.UUID, period DateRange, totalCents int64) (*Booking, error) {
	if carID == uuid.Nil {
		return nil, shared.NewValidationError("car ID is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer ID is required")
	}
	if totalCents < 0 {
		return nil, shared.NewValidationError("total price cannot be negative")
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		carID:         carID,
		customerID:    customerID,
		period:        period,
		totalCents:    totalCents,
		status:        StatusPending,
		paymentStatus: PaymentUnpaid,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, carID, customerID uuid.UUID,
	period DateRange,
	totalCents int64,
	status BookingStatus,
	paymentStatus PaymentStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		carID:         carID,
		customerID:    customerID,
		period:        period,
		totalCents:    totalCents,
		status:        status,
		paymentStatus: paymentStatus,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CarID returns the booked car's identifier.
func (b *Booking) CarID() uuid.UUID { return b.carID }

// CustomerID returns the owning customer's identifier.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// Period returns the inclusive rental date range.
func (b *Booking) Period() DateRange { return b.period }

// TotalCents returns the total price in cents, fixed at creation.
func (b *Booking) TotalCents() int64 { return b.totalCents }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// TransitionTo applies a status change, enforcing the state machine. The
// caller is responsible for authorization (see AuthorizeTransition).
func (b *Booking) TransitionTo(target BookingStatus) error {
	switch target {
	case StatusConfirmed:
		return b.Confirm()
	case StatusCancelled:
		return b.Cancel()
	case StatusCompleted:
		return b.Complete()
	default:
		return shared.NewInvalidTransitionError(string(b.status), string(target))
	}
}

// Confirm transitions the booking from pending to confirmed. Confirming
// models pay-on-confirm: the payment status is forced to paid.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return shared.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	if b.paymentStatus != PaymentPaid {
		b.paymentStatus = PaymentPaid
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal
// state. Cancellation is a status, not a removal.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return shared.NewInvalidTransitionError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from pending or confirmed to completed.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return shared.NewInvalidTransitionError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetPaymentStatus overrides the payment status (admin payment management).
func (b *Booking) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("invalid payment status: " + string(status))
	}
	b.paymentStatus = status
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
