package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/domain/car"
	"github.com/driveline/service-rental/internal/domain/customer"
	"github.com/driveline/service-rental/internal/domain/shared"
	"github.com/driveline/service-rental/internal/events"
	"github.com/driveline/service-rental/internal/platform/cache"
)

// EventDispatcher publishes booking lifecycle events. Dispatch is fire and
// forget: it never blocks the caller and never fails the operation.
type EventDispatcher interface {
	Dispatch(eventType string, evt events.BookingEvent)
}

// BookingService orchestrates the booking lifecycle: creation with the
// atomic availability check, status transitions with authorization, queries,
// and payment views.
type BookingService struct {
	bookings   booking.BookingRepository
	cars       car.CarRepository
	customers  customer.CustomerRepository
	pricing    booking.PricingStrategy
	dispatcher EventDispatcher
	cache      *cache.AvailabilityCache
	logger     *zap.Logger
}

// NewBookingService creates a BookingService. cache may be nil when Redis is
// not configured.
func NewBookingService(
	bookings booking.BookingRepository,
	cars car.CarRepository,
	customers customer.CustomerRepository,
	pricing booking.PricingStrategy,
	dispatcher EventDispatcher,
	availCache *cache.AvailabilityCache,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		cars:       cars,
		customers:  customers,
		pricing:    pricing,
		dispatcher: dispatcher,
		cache:      availCache,
		logger:     logger,
	}
}

// parsePeriod parses two YYYY-MM-DD dates into a DateRange.
func parsePeriod(startStr, endStr string) (booking.DateRange, error) {
	start, err := time.Parse(time.DateOnly, startStr)
	if err != nil {
		return booking.DateRange{}, shared.NewInvalidDateError("invalid start date, expected YYYY-MM-DD: " + startStr)
	}
	end, err := time.Parse(time.DateOnly, endStr)
	if err != nil {
		return booking.DateRange{}, shared.NewInvalidDateError("invalid end date, expected YYYY-MM-DD: " + endStr)
	}
	return booking.NewDateRange(start, end)
}

// CreateBooking creates a booking for the user's customer record. The
// availability check and the insert are a single atomic unit in the
// repository, so two racing requests for overlapping dates on one car cannot
// both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, input CreateBookingInput) (*BookingDTO, error) {
	carID, err := uuid.Parse(input.CarID)
	if err != nil {
		return nil, shared.NewValidationError("invalid car ID: " + input.CarID)
	}

	period, err := parsePeriod(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if period.StartsBefore(time.Now().UTC()) {
		return nil, shared.NewInvalidDateError("start date cannot be in the past")
	}

	cust, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !c.IsBookable() {
		return nil, shared.NewCarUnavailableError("car is not available for booking")
	}

	total, err := s.pricing.Quote(c.DailyRateCents(), period)
	if err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(c.ID(), cust.ID(), period, total)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.CreateExclusive(ctx, b); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, c.ID())
	s.dispatch(events.BookingCreated, b, c, cust)

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID().String()),
		zap.String("car_id", c.ID().String()),
		zap.String("customer_id", cust.ID().String()),
	)
	return toBookingDTO(b), nil
}

// CheckAvailability reports whether a car can be booked over the period.
// Fails closed: a storage failure reports the car unavailable rather than
// available or erroring out. Reads may be served from the cache; creation
// always re-checks atomically.
func (s *BookingService) CheckAvailability(ctx context.Context, carID uuid.UUID, startStr, endStr string) (*AvailabilityDTO, error) {
	period, err := parsePeriod(startStr, endStr)
	if err != nil {
		return nil, err
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	dto := &AvailabilityDTO{
		CarID:     carID.String(),
		StartDate: period.Start.Format(time.DateOnly),
		EndDate:   period.End.Format(time.DateOnly),
	}

	if !c.IsBookable() {
		return dto, nil
	}

	if available, ok := s.cache.Get(ctx, carID, dto.StartDate, dto.EndDate); ok {
		dto.Available = available
		return dto, nil
	}

	overlaps, err := s.bookings.CountOverlapping(ctx, carID, period, nil)
	if err != nil {
		s.logger.Error("availability check failed, reporting unavailable",
			zap.String("car_id", carID.String()),
			zap.Error(err),
		)
		return dto, nil
	}
	dto.Available = overlaps == 0
	s.cache.Set(ctx, carID, dto.StartDate, dto.EndDate, dto.Available)
	return dto, nil
}

// QuotePrice computes the total price for renting a car over the period,
// without reserving anything.
func (s *BookingService) QuotePrice(ctx context.Context, carID uuid.UUID, startStr, endStr string) (*QuoteDTO, error) {
	period, err := parsePeriod(startStr, endStr)
	if err != nil {
		return nil, err
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	total, err := s.pricing.Quote(c.DailyRateCents(), period)
	if err != nil {
		return nil, err
	}

	return &QuoteDTO{
		CarID:           carID.String(),
		StartDate:       period.Start.Format(time.DateOnly),
		EndDate:         period.End.Format(time.DateOnly),
		Days:            period.Days(),
		DailyRateCents:  c.DailyRateCents(),
		TotalPriceCents: total,
	}, nil
}

// Transition moves a booking to the target status on behalf of the actor.
// Authorization is checked against the booking's owner before the state
// machine runs, so a foreign booking yields access denied rather than
// leaking transition details.
func (s *BookingService) Transition(ctx context.Context, bookingID uuid.UUID, actor booking.Actor, target booking.BookingStatus) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	owner, err := s.customers.FindByID(ctx, b.CustomerID())
	if err != nil {
		return nil, err
	}

	if err := booking.AuthorizeTransition(actor, owner.UserID(), target); err != nil {
		return nil, err
	}

	if err := b.TransitionTo(target); err != nil {
		return nil, err
	}
	b.IncrementVersion()

	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, b.CarID())

	if eventType, ok := eventTypeFor(target); ok {
		c, carErr := s.cars.FindByID(ctx, b.CarID())
		if carErr != nil {
			s.logger.Warn("skipping event, car lookup failed",
				zap.String("booking_id", b.ID().String()),
				zap.Error(carErr),
			)
		} else {
			s.dispatch(eventType, b, c, owner)
		}
	}

	s.logger.Info("booking transitioned",
		zap.String("booking_id", b.ID().String()),
		zap.String("status", string(b.Status())),
	)
	return toBookingDTO(b), nil
}

// CancelBooking cancels a booking on behalf of the actor.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) (*BookingDTO, error) {
	return s.Transition(ctx, bookingID, actor, booking.StatusCancelled)
}

// GetBooking retrieves a booking, enforcing ownership for non-admins.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, b, actor); err != nil {
		return nil, err
	}
	return toBookingDTO(b), nil
}

// GetCustomerBookings retrieves the bookings of the user's customer record.
func (s *BookingService) GetCustomerBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]*BookingDTO, int64, error) {
	cust, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	bookings, total, err := s.bookings.FindByCustomerID(ctx, cust.ID(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOList(bookings), total, nil
}

// ListAllBookings retrieves every booking (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]*BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOList(bookings), total, nil
}

// GetBookingStats returns booking counts grouped by status (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*StatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &StatsDTO{Total: total, ByStatus: counts}, nil
}

// ListAllPayments returns the payment view of every booking (admin).
func (s *BookingService) ListAllPayments(ctx context.Context, page, limit int) ([]*PaymentDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*PaymentDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, &PaymentDTO{
			BookingID:       b.ID().String(),
			TotalPriceCents: b.TotalCents(),
			PaymentStatus:   string(b.PaymentStatus()),
			BookingStatus:   string(b.Status()),
		})
	}
	return out, total, nil
}

// UpdatePaymentStatus overrides a booking's payment status (admin). This is
// the only path to the partial status; confirming a booking always marks it
// paid.
func (s *BookingService) UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, status booking.PaymentStatus) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.SetPaymentStatus(status); err != nil {
		return nil, err
	}
	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBookingDTO(b), nil
}

// GetPaymentDetails retrieves the payment view of a booking, enforcing
// ownership for non-admins.
func (s *BookingService) GetPaymentDetails(ctx context.Context, bookingID uuid.UUID, actor booking.Actor) (*PaymentDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, b, actor); err != nil {
		return nil, err
	}
	return &PaymentDTO{
		BookingID:       b.ID().String(),
		TotalPriceCents: b.TotalCents(),
		PaymentStatus:   string(b.PaymentStatus()),
		BookingStatus:   string(b.Status()),
	}, nil
}

func (s *BookingService) authorizeRead(ctx context.Context, b *booking.Booking, actor booking.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	owner, err := s.customers.FindByID(ctx, b.CustomerID())
	if err != nil {
		return err
	}
	if owner.UserID() != actor.UserID {
		return shared.NewAccessDeniedError("booking does not belong to this user")
	}
	return nil
}

func eventTypeFor(target booking.BookingStatus) (string, bool) {
	switch target {
	case booking.StatusConfirmed:
		return events.BookingConfirmed, true
	case booking.StatusCancelled:
		return events.BookingCancelled, true
	case booking.StatusCompleted:
		return events.BookingCompleted, true
	default:
		return "", false
	}
}

func (s *BookingService) dispatch(eventType string, b *booking.Booking, c *car.Car, cust *customer.Customer) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(eventType, events.BookingEvent{
		BookingID:       b.ID(),
		CarID:           c.ID(),
		CarMake:         c.Make(),
		CarModel:        c.Model(),
		CustomerID:      cust.ID(),
		CustomerName:    cust.Name(),
		CustomerEmail:   cust.Email(),
		StartDate:       b.Period().Start.Format(time.DateOnly),
		EndDate:         b.Period().End.Format(time.DateOnly),
		TotalPriceCents: b.TotalCents(),
		Status:          string(b.Status()),
		PaymentStatus:   string(b.PaymentStatus()),
		OccurredAt:      time.Now().UTC(),
	})
}
