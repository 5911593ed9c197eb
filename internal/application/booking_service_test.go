package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/domain/car"
	"github.com/driveline/service-rental/internal/domain/customer"
	"github.com/driveline/service-rental/internal/domain/shared"
	"github.com/driveline/service-rental/internal/events"
)

// fakeBookingRepo is an in-memory BookingRepository. CreateExclusive holds a
// mutex across the overlap check and the insert, mirroring the serializing
// transaction of the real repository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
	failWith error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, shared.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID, page, limit int) ([]*booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.CustomerID() == customerID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.bookings {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) countOverlappingLocked(carID uuid.UUID, period booking.DateRange, excludeID *uuid.UUID) int64 {
	var n int64
	for _, b := range r.bookings {
		if b.CarID() != carID {
			continue
		}
		if excludeID != nil && b.ID() == *excludeID {
			continue
		}
		active := b.Status() == booking.StatusPending || b.Status() == booking.StatusConfirmed
		if active && b.Period().Overlaps(period) {
			n++
		}
	}
	return n
}

func (r *fakeBookingRepo) CountOverlapping(_ context.Context, carID uuid.UUID, period booking.DateRange, excludeID *uuid.UUID) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countOverlappingLocked(carID, period, excludeID), nil
}

func (r *fakeBookingRepo) CreateExclusive(_ context.Context, b *booking.Booking) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countOverlappingLocked(b.CarID(), b.Period(), nil) > 0 {
		return shared.NewCarUnavailableError("car is already booked for the selected dates")
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID()]; !ok {
		return shared.NewNotFoundError("booking", b.ID().String())
	}
	r.bookings[b.ID()] = b
	return nil
}

type fakeCarRepo struct {
	cars map[uuid.UUID]*car.Car
}

func (r *fakeCarRepo) FindByID(_ context.Context, id uuid.UUID) (*car.Car, error) {
	c, ok := r.cars[id]
	if !ok {
		return nil, shared.NewNotFoundError("car", id.String())
	}
	return c, nil
}

func (r *fakeCarRepo) List(_ context.Context, onlyAvailable bool, page, limit int) ([]*car.Car, int64, error) {
	var out []*car.Car
	for _, c := range r.cars {
		if onlyAvailable && !c.IsBookable() {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*customer.Customer
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, shared.NewNotFoundError("customer", id.String())
}

func (r *fakeCustomerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*customer.Customer, error) {
	c, ok := r.customers[userID]
	if !ok {
		return nil, shared.NewNotFoundError("customer", userID.String())
	}
	return c, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []string
}

func (d *recordingDispatcher) Dispatch(eventType string, _ events.BookingEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, eventType)
}

func (d *recordingDispatcher) recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

type fixture struct {
	service    *BookingService
	bookings   *fakeBookingRepo
	dispatcher *recordingDispatcher

	car      *car.Car
	customer *customer.Customer
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	c, err := car.NewCar("Toyota", "Corolla", 2024, 5000, "Oslo")
	require.NoError(t, err)

	userID := uuid.New()
	cust, err := customer.NewCustomer(userID, "Kari Nordmann", "kari@example.com")
	require.NoError(t, err)

	bookings := newFakeBookingRepo()
	dispatcher := &recordingDispatcher{}
	service := NewBookingService(
		bookings,
		&fakeCarRepo{cars: map[uuid.UUID]*car.Car{c.ID(): c}},
		&fakeCustomerRepo{customers: map[uuid.UUID]*customer.Customer{userID: cust}},
		booking.NewDailyRatePricing(),
		dispatcher,
		nil,
		zap.NewNop(),
	)
	return &fixture{
		service:    service,
		bookings:   bookings,
		dispatcher: dispatcher,
		car:        c,
		customer:   cust,
		userID:     userID,
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(time.DateOnly)
}

func (f *fixture) createBooking(t *testing.T, startDays, endDays int) *BookingDTO {
	t.Helper()
	dto, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
		CarID:     f.car.ID().String(),
		StartDate: futureDate(startDays),
		EndDate:   futureDate(endDays),
	})
	require.NoError(t, err)
	return dto
}

func (f *fixture) actor() booking.Actor {
	return booking.Actor{UserID: f.userID, Role: booking.RoleCustomer}
}

func adminActor() booking.Actor {
	return booking.Actor{UserID: uuid.New(), Role: booking.RoleAdmin}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	dto := f.createBooking(t, 3, 5)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "unpaid", dto.PaymentStatus)
	// Three inclusive days at $50/day.
	assert.Equal(t, int64(15000), dto.TotalPriceCents)
	assert.Equal(t, []string{events.BookingCreated}, f.dispatcher.recorded())
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
		CarID:     f.car.ID().String(),
		StartDate: futureDate(-1),
		EndDate:   futureDate(2),
	})
	assert.True(t, shared.IsKind(err, shared.KindInvalidDate), "got %v", err)
}

func TestCreateBookingRejectsMalformedDates(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
		CarID:     f.car.ID().String(),
		StartDate: "10-03-2026",
		EndDate:   futureDate(2),
	})
	assert.True(t, shared.IsKind(err, shared.KindInvalidDate), "got %v", err)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, 3, 6)

	tests := []struct {
		name       string
		start, end int
	}{
		{"identical range", 3, 6},
		{"inside", 4, 5},
		{"starts on end day", 6, 8},
		{"ends on start day", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
				CarID:     f.car.ID().String(),
				StartDate: futureDate(tt.start),
				EndDate:   futureDate(tt.end),
			})
			assert.True(t, shared.IsKind(err, shared.KindCarUnavailable), "got %v", err)
		})
	}

	// Disjoint dates still book fine.
	f.createBooking(t, 8, 10)
}

func TestCreateBookingAfterCancellationFreesDates(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 6)

	_, err := f.service.CancelBooking(context.Background(), uuid.MustParse(dto.ID), f.actor())
	require.NoError(t, err)

	f.createBooking(t, 3, 6)
}

func TestCreateBookingUnknownCar(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
		CarID:     uuid.New().String(),
		StartDate: futureDate(3),
		EndDate:   futureDate(5),
	})
	assert.True(t, shared.IsKind(err, shared.KindNotFound), "got %v", err)
}

func TestCreateBookingUnavailableFleetStatus(t *testing.T) {
	f := newFixture(t)
	parked := car.ReconstructCar(
		uuid.New(), "Volvo", "V60", 2023, 7000, "Bergen",
		car.StatusUnavailable, time.Now(), time.Now(),
	)
	f.service.cars = &fakeCarRepo{cars: map[uuid.UUID]*car.Car{parked.ID(): parked}}

	_, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
		CarID:     parked.ID().String(),
		StartDate: futureDate(3),
		EndDate:   futureDate(5),
	})
	assert.True(t, shared.IsKind(err, shared.KindCarUnavailable), "got %v", err)
}

func TestParallelOverlappingCreates(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.service.CreateBooking(context.Background(), f.userID, CreateBookingInput{
				CarID:     f.car.ID().String(),
				StartDate: futureDate(3),
				EndDate:   futureDate(5),
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, shared.IsKind(err, shared.KindCarUnavailable), "got %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the racing creates may win")
}

func TestConfirmBooking(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	confirmed, err := f.service.Transition(context.Background(), id, f.actor(), booking.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, "paid", confirmed.PaymentStatus)
	assert.Contains(t, f.dispatcher.recorded(), events.BookingConfirmed)

	_, err = f.service.Transition(context.Background(), id, f.actor(), booking.StatusConfirmed)
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition), "got %v", err)
}

func TestCancelBookingTwice(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	cancelled, err := f.service.CancelBooking(context.Background(), id, f.actor())
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = f.service.CancelBooking(context.Background(), id, f.actor())
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition), "got %v", err)
}

func TestTransitionCrossCustomerDenied(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	stranger := booking.Actor{UserID: uuid.New(), Role: booking.RoleCustomer}
	_, err := f.service.Transition(context.Background(), id, stranger, booking.StatusCancelled)
	assert.True(t, shared.IsKind(err, shared.KindAccessDenied), "got %v", err)
}

func TestCompleteRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	_, err := f.service.Transition(context.Background(), id, f.actor(), booking.StatusCompleted)
	assert.True(t, shared.IsKind(err, shared.KindAccessDenied), "got %v", err)

	completed, err := f.service.Transition(context.Background(), id, adminActor(), booking.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
}

func TestGetBookingOwnership(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	_, err := f.service.GetBooking(context.Background(), id, f.actor())
	require.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), id, adminActor())
	require.NoError(t, err)

	stranger := booking.Actor{UserID: uuid.New(), Role: booking.RoleCustomer}
	_, err = f.service.GetBooking(context.Background(), id, stranger)
	assert.True(t, shared.IsKind(err, shared.KindAccessDenied), "got %v", err)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)

	dto, err := f.service.CheckAvailability(context.Background(), f.car.ID(), futureDate(3), futureDate(5))
	require.NoError(t, err)
	assert.True(t, dto.Available)

	f.createBooking(t, 3, 5)

	dto, err = f.service.CheckAvailability(context.Background(), f.car.ID(), futureDate(5), futureDate(7))
	require.NoError(t, err)
	assert.False(t, dto.Available, "range touching an existing booking's end day is taken")
}

func TestCheckAvailabilityFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.bookings.failWith = errors.New("connection reset")

	dto, err := f.service.CheckAvailability(context.Background(), f.car.ID(), futureDate(3), futureDate(5))
	require.NoError(t, err)
	assert.False(t, dto.Available, "a storage failure must never report the car available")
}

func TestQuotePrice(t *testing.T) {
	f := newFixture(t)

	quote, err := f.service.QuotePrice(context.Background(), f.car.ID(), futureDate(3), futureDate(5))
	require.NoError(t, err)
	assert.Equal(t, int64(3), quote.Days)
	assert.Equal(t, int64(5000), quote.DailyRateCents)
	assert.Equal(t, int64(15000), quote.TotalPriceCents)
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	updated, err := f.service.UpdatePaymentStatus(context.Background(), id, booking.PaymentPartial)
	require.NoError(t, err)
	assert.Equal(t, "partial", updated.PaymentStatus)
	assert.Equal(t, "pending", updated.Status)
}

func TestGetPaymentDetails(t *testing.T) {
	f := newFixture(t)
	dto := f.createBooking(t, 3, 5)
	id := uuid.MustParse(dto.ID)

	payment, err := f.service.GetPaymentDetails(context.Background(), id, f.actor())
	require.NoError(t, err)
	assert.Equal(t, dto.ID, payment.BookingID)
	assert.Equal(t, int64(15000), payment.TotalPriceCents)
	assert.Equal(t, "unpaid", payment.PaymentStatus)

	stranger := booking.Actor{UserID: uuid.New(), Role: booking.RoleCustomer}
	_, err = f.service.GetPaymentDetails(context.Background(), id, stranger)
	assert.True(t, shared.IsKind(err, shared.KindAccessDenied), "got %v", err)
}

func TestListAllPayments(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, 3, 5)
	f.createBooking(t, 8, 10)

	payments, total, err := f.service.ListAllPayments(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, "unpaid", p.PaymentStatus)
		assert.Equal(t, int64(15000), p.TotalPriceCents)
	}
}

func TestGetBookingStats(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, 3, 5)
	dto := f.createBooking(t, 8, 10)
	_, err := f.service.CancelBooking(context.Background(), uuid.MustParse(dto.ID), f.actor())
	require.NoError(t, err)

	stats, err := f.service.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["cancelled"])
}
