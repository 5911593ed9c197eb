package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driveline/service-rental/internal/domain/customer"
	"github.com/driveline/service-rental/internal/domain/shared"
)

// CustomerModel is the GORM persistence model for customers.
type CustomerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(255)"`
	Email     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
}

// TableName overrides the GORM table name.
func (CustomerModel) TableName() string {
	return "customers"
}

// GormCustomerRepository implements customer.CustomerRepository on PostgreSQL.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a GormCustomerRepository.
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID retrieves a customer by ID.
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var model CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("customer", id.String())
		}
		return nil, err
	}
	return toCustomerDomain(&model), nil
}

// FindByUserID retrieves the customer linked to an authenticated user.
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	var model CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("customer", userID.String())
		}
		return nil, err
	}
	return toCustomerDomain(&model), nil
}

func toCustomerDomain(m *CustomerModel) *customer.Customer {
	return customer.ReconstructCustomer(m.ID, m.UserID, m.Name, m.Email, m.CreatedAt)
}
