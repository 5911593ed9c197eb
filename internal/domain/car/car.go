package car

import (
	"time"

	"github.com/driveline/service-rental/internal/domain/shared"
	"github.com/google/uuid"
)

// CarStatus is the fleet-level status of a car, independent of bookings.
type CarStatus string

const (
	StatusAvailable   CarStatus = "available"
	StatusUnavailable CarStatus = "unavailable"
)

// IsValid returns true if the status is recognized.
func (s CarStatus) IsValid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// Car is a fleet vehicle. Cars are mutated only through admin fleet
// management, which is outside this service; the booking core reads them.
type Car struct {
	id             uuid.UUID
	make           string
	model          string
	year           int
	dailyRateCents int64
	location       string
	status         CarStatus
	createdAt      time.Time
	updatedAt      time.Time
}

// NewCar creates a new Car in the available status.
func NewCar(make, model string, year int, dailyRateCents int64, location string) (*Car, error) {
	if make == "" {
		return nil, shared.NewValidationError("car make is required")
	}
	if model == "" {
		return nil, shared.NewValidationError("car model is required")
	}
	if dailyRateCents <= 0 {
		return nil, shared.NewValidationError("daily rate must be positive")
	}

	now := time.Now().UTC()
	return &Car{
		id:             uuid.New(),
		make:           make,
		model:          model,
		year:           year,
		dailyRateCents: dailyRateCents,
		location:       location,
		status:         StatusAvailable,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructCar rebuilds a Car from persistence data (no validation).
func ReconstructCar(
	id uuid.UUID,
	make, model string,
	year int,
	dailyRateCents int64,
	location string,
	status CarStatus,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:             id,
		make:           make,
		model:          model,
		year:           year,
		dailyRateCents: dailyRateCents,
		location:       location,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the car's unique identifier.
func (c *Car) ID() uuid.UUID { return c.id }

// Make returns the manufacturer name.
func (c *Car) Make() string { return c.make }

// Model returns the model name.
func (c *Car) Model() string { return c.model }

// Year returns the model year.
func (c *Car) Year() int { return c.year }

// DailyRateCents returns the daily rental rate in cents.
func (c *Car) DailyRateCents() int64 { return c.dailyRateCents }

// Location returns the pickup location.
func (c *Car) Location() string { return c.location }

// Status returns the fleet status.
func (c *Car) Status() CarStatus { return c.status }

// CreatedAt returns the creation timestamp.
func (c *Car) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }

// IsBookable reports whether the car's fleet status allows new bookings.
func (c *Car) IsBookable() bool {
	return c.status == StatusAvailable
}
