package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries every booking lifecycle event this service
// emits.
const TopicBookingEvents = "rental.booking.events"

// Event type names, used as the CloudEvent type attribute.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// BookingEvent is the payload for all booking lifecycle events: enough for
// a notification consumer to render a message without calling back into the
// service.
type BookingEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	CarID           uuid.UUID `json:"car_id"`
	CarMake         string    `json:"car_make"`
	CarModel        string    `json:"car_model"`
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	OccurredAt      time.Time `json:"occurred_at"`
}
