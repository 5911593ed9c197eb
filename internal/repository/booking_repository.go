package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/domain/car"
	"github.com/driveline/service-rental/internal/domain/shared"
)

// BookingModel is the GORM persistence model for booking aggregates.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarID           uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate       time.Time `gorm:"type:date;not null"`
	EndDate         time.Time `gorm:"type:date;not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   string    `gorm:"type:varchar(20);not null"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the GORM table name.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository implements booking.BookingRepository on PostgreSQL.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(booking.ActiveStatuses))
	for _, s := range booking.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

// overlapScope matches active bookings on the car whose inclusive date range
// overlaps the period: existing.start <= period.end AND period.start <=
// existing.end. A booking ending on the day another starts is an overlap.
func overlapScope(tx *gorm.DB, carID uuid.UUID, period booking.DateRange) *gorm.DB {
	return tx.Model(&BookingModel{}).
		Where("car_id = ?", carID).
		Where("status IN ?", activeStatusStrings()).
		Where("start_date <= ? AND end_date >= ?", period.End, period.Start)
}

// FindByID retrieves a booking by ID.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("booking", id.String())
		}
		return nil, err
	}
	return toBookingDomain(&model)
}

// FindByCustomerID retrieves a customer's bookings, newest first.
func (r *GormBookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]*booking.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	bookings, err := toBookingDomainList(models)
	return bookings, total, err
}

// ListAll retrieves all bookings, newest first.
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	bookings, err := toBookingDomainList(models)
	return bookings, total, err
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// CountOverlapping counts active bookings on the car overlapping the period.
func (r *GormBookingRepository) CountOverlapping(ctx context.Context, carID uuid.UUID, period booking.DateRange, excludeID *uuid.UUID) (int64, error) {
	query := overlapScope(r.db.WithContext(ctx), carID, period)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateExclusive persists a new booking inside a transaction that locks the
// car row, so concurrent creates on the same car serialize: the overlap count
// each transaction sees includes any booking a competing transaction just
// committed.
func (r *GormBookingRepository) CreateExclusive(ctx context.Context, b *booking.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var carModel CarModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&carModel, "id = ?", b.CarID()).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("car", b.CarID().String())
			}
			return err
		}
		if carModel.Status != string(car.StatusAvailable) {
			return shared.NewCarUnavailableError("car is not available for booking")
		}

		var overlaps int64
		if err := overlapScope(tx, b.CarID(), b.Period()).Count(&overlaps).Error; err != nil {
			return err
		}
		if overlaps > 0 {
			return shared.NewCarUnavailableError("car is already booked for the selected dates")
		}

		return tx.Create(toBookingModel(b)).Error
	})
}

// Update persists an already-transitioned booking. The aggregate's version
// was incremented in memory; the write only lands if the stored row still
// carries the previous version.
func (r *GormBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	model := toBookingModel(b)
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", b.ID(), b.Version()-1).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("booking was modified concurrently, retry")
	}
	return nil
}

func toBookingModel(b *booking.Booking) *BookingModel {
	return &BookingModel{
		ID:              b.ID(),
		CarID:           b.CarID(),
		CustomerID:      b.CustomerID(),
		StartDate:       b.Period().Start,
		EndDate:         b.Period().End,
		TotalPriceCents: b.TotalCents(),
		Status:          string(b.Status()),
		PaymentStatus:   string(b.PaymentStatus()),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func toBookingDomain(m *BookingModel) (*booking.Booking, error) {
	period, err := booking.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		m.ID, m.CarID, m.CustomerID,
		period,
		m.TotalPriceCents,
		booking.BookingStatus(m.Status),
		booking.PaymentStatus(m.PaymentStatus),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toBookingDomainList(models []BookingModel) ([]*booking.Booking, error) {
	out := make([]*booking.Booking, 0, len(models))
	for i := range models {
		b, err := toBookingDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
