package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveline/service-rental/internal/domain/car"
)

// CarService serves read-only fleet queries. Fleet mutation lives in the
// fleet management system, not here.
type CarService struct {
	cars   car.CarRepository
	logger *zap.Logger
}

// NewCarService creates a CarService.
func NewCarService(cars car.CarRepository, logger *zap.Logger) *CarService {
	return &CarService{cars: cars, logger: logger}
}

// GetCar retrieves a single car.
func (s *CarService) GetCar(ctx context.Context, id uuid.UUID) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCarDTO(c), nil
}

// ListCars retrieves fleet cars, optionally only those in the available
// fleet status.
func (s *CarService) ListCars(ctx context.Context, onlyAvailable bool, page, limit int) ([]*CarDTO, int64, error) {
	cars, total, err := s.cars.List(ctx, onlyAvailable, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*CarDTO, 0, len(cars))
	for _, c := range cars {
		out = append(out, toCarDTO(c))
	}
	return out, total, nil
}
