package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driveline/service-rental/internal/domain/car"
	"github.com/driveline/service-rental/internal/domain/shared"
)

// CarModel is the GORM persistence model for fleet cars.
type CarModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Make           string    `gorm:"type:varchar(100);not null"`
	Model          string    `gorm:"type:varchar(100);not null"`
	Year           int       `gorm:"not null"`
	DailyRateCents int64     `gorm:"not null"`
	Location       string    `gorm:"type:varchar(255)"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the GORM table name.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository implements car.CarRepository on PostgreSQL.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// FindByID retrieves a car by ID.
func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	var model CarModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("car", id.String())
		}
		return nil, err
	}
	return toCarDomain(&model), nil
}

// List retrieves fleet cars, optionally filtered to the available status.
func (r *GormCarRepository) List(ctx context.Context, onlyAvailable bool, page, limit int) ([]*car.Car, int64, error) {
	query := r.db.WithContext(ctx).Model(&CarModel{})
	if onlyAvailable {
		query = query.Where("status = ?", string(car.StatusAvailable))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []CarModel
	offset := (page - 1) * limit
	if err := query.Order("make, model").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	cars := make([]*car.Car, 0, len(models))
	for i := range models {
		cars = append(cars, toCarDomain(&models[i]))
	}
	return cars, total, nil
}

func toCarDomain(m *CarModel) *car.Car {
	return car.ReconstructCar(
		m.ID,
		m.Make, m.Model,
		m.Year,
		m.DailyRateCents,
		m.Location,
		car.CarStatus(m.Status),
		m.CreatedAt, m.UpdatedAt,
	)
}
