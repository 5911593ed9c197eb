package application

import (
	"time"

	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/domain/car"
)

// CreateBookingInput carries the request payload for creating a booking.
// Dates are calendar dates in YYYY-MM-DD form.
type CreateBookingInput struct {
	CarID     string `json:"car_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID              string    `json:"id"`
	CarID           string    `json:"car_id"`
	CustomerID      string    `json:"customer_id"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toBookingDTO(b *booking.Booking) *BookingDTO {
	return &BookingDTO{
		ID:              b.ID().String(),
		CarID:           b.CarID().String(),
		CustomerID:      b.CustomerID().String(),
		StartDate:       b.Period().Start.Format(time.DateOnly),
		EndDate:         b.Period().End.Format(time.DateOnly),
		TotalPriceCents: b.TotalCents(),
		Status:          string(b.Status()),
		PaymentStatus:   string(b.PaymentStatus()),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func toBookingDTOList(bookings []*booking.Booking) []*BookingDTO {
	out := make([]*BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	return out
}

// CarDTO is the API representation of a fleet car.
type CarDTO struct {
	ID             string `json:"id"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	Location       string `json:"location"`
	Status         string `json:"status"`
}

func toCarDTO(c *car.Car) *CarDTO {
	return &CarDTO{
		ID:             c.ID().String(),
		Make:           c.Make(),
		Model:          c.Model(),
		Year:           c.Year(),
		DailyRateCents: c.DailyRateCents(),
		Location:       c.Location(),
		Status:         string(c.Status()),
	}
}

// AvailabilityDTO is the response for an availability check.
type AvailabilityDTO struct {
	CarID     string `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

// QuoteDTO is the response for a price quote.
type QuoteDTO struct {
	CarID           string `json:"car_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Days            int64  `json:"days"`
	DailyRateCents  int64  `json:"daily_rate_cents"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

// PaymentDTO is the payment view of a booking.
type PaymentDTO struct {
	BookingID       string `json:"booking_id"`
	TotalPriceCents int64  `json:"total_price_cents"`
	PaymentStatus   string `json:"payment_status"`
	BookingStatus   string `json:"booking_status"`
}

// StatsDTO aggregates booking counts by status.
type StatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}
