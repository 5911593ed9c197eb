package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveline/service-rental/internal/domain/shared"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	period := mustRange(t, date(2026, 3, 10), date(2026, 3, 12))
	b, err := NewBooking(uuid.New(), uuid.New(), period, 15000)
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t)
	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus())
	assert.Equal(t, int64(1), b.Version())
	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, int64(15000), b.TotalCents())
}

func TestNewBookingValidation(t *testing.T) {
	period := mustRange(t, date(2026, 3, 10), date(2026, 3, 12))

	_, err := NewBooking(uuid.Nil, uuid.New(), period, 100)
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = NewBooking(uuid.New(), uuid.Nil, period, 100)
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = NewBooking(uuid.New(), uuid.New(), period, -1)
	assert.True(t, shared.IsKind(err, shared.KindValidation))
}

func TestBookingConfirmMarksPaid(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm())
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Equal(t, PaymentPaid, b.PaymentStatus())
}

func TestBookingConfirmTwiceFails(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm())
	err := b.Confirm()
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition))
}

func TestBookingCancel(t *testing.T) {
	t.Run("pending booking cancels", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel())
		assert.Equal(t, StatusCancelled, b.Status())
		// Cancelling does not touch the payment status.
		assert.Equal(t, PaymentUnpaid, b.PaymentStatus())
	})

	t.Run("confirmed booking cancels", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Confirm())
		require.NoError(t, b.Cancel())
		assert.Equal(t, StatusCancelled, b.Status())
	})

	t.Run("cancel is not idempotent", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Cancel())
		err := b.Cancel()
		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindInvalidTransition))
	})

	t.Run("completed booking cannot cancel", func(t *testing.T) {
		b := newTestBooking(t)
		require.NoError(t, b.Complete())
		err := b.Cancel()
		assert.True(t, shared.IsKind(err, shared.KindInvalidTransition))
	})
}

func TestBookingTransitionTo(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.TransitionTo(StatusConfirmed))
	assert.Equal(t, StatusConfirmed, b.Status())

	err := b.TransitionTo(StatusPending)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindInvalidTransition))
}

func TestBookingSetPaymentStatus(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.SetPaymentStatus(PaymentPartial))
	assert.Equal(t, PaymentPartial, b.PaymentStatus())

	err := b.SetPaymentStatus(PaymentStatus("refunded"))
	assert.True(t, shared.IsKind(err, shared.KindValidation))
}

func TestBookingIncrementVersion(t *testing.T) {
	b := newTestBooking(t)
	b.IncrementVersion()
	b.IncrementVersion()
	assert.Equal(t, int64(3), b.Version())
}
