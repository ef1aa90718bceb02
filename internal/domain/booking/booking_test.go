package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpark/service-booking/internal/domain/pricing"
	"github.com/openpark/service-booking/internal/platform/domain"
)

func newTestBooking() *Booking {
	breakdown := pricing.Breakdown{
		BasePrice:      100,
		BookingType:    pricing.BookingDay,
		OnlineDiscount: 10,
		PromoDiscount:  9,
		PromoCode:      "PERCENT10",
		Total:          81,
		Currency:       "USD",
	}
	return NewBooking(
		"ref-123",
		"Jane Driver", "jane@example.com", "+49 170 000000", "B-XY 1234",
		pricing.ParkingInternal, pricing.PaymentOnline,
		time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, 11, 10, 0, 0, 0, time.UTC),
		breakdown,
	)
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking()

	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, "ref-123", b.ClientRef())
	assert.Equal(t, pricing.BookingDay, b.BookingType())
	assert.Equal(t, 81.0, b.TotalPrice())
	assert.Equal(t, "PERCENT10", b.PromoCode())
	assert.NotEqual(t, b.ID().String(), "")
}

func TestBookingTransitions(t *testing.T) {
	t.Run("confirm pending", func(t *testing.T) {
		b := newTestBooking()
		require.NoError(t, b.Confirm())
		assert.Equal(t, StatusConfirmed, b.Status())
	})

	t.Run("cancel pending", func(t *testing.T) {
		b := newTestBooking()
		require.NoError(t, b.Cancel())
		assert.Equal(t, StatusCancelled, b.Status())
	})

	t.Run("expire pending", func(t *testing.T) {
		b := newTestBooking()
		require.NoError(t, b.Expire())
		assert.Equal(t, StatusExpired, b.Status())
	})

	t.Run("only pending transitions", func(t *testing.T) {
		b := newTestBooking()
		require.NoError(t, b.Confirm())

		for _, err := range []error{b.Confirm(), b.Cancel(), b.Expire()} {
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidState))
		}
		assert.Equal(t, StatusConfirmed, b.Status())
	})
}

func TestBookingStripPromo(t *testing.T) {
	b := newTestBooking()
	b.StripPromo()

	assert.Equal(t, 90.0, b.TotalPrice())
	assert.Equal(t, 0.0, b.PromoDiscount())
	assert.Empty(t, b.PromoCode())
	// The online discount is untouched.
	assert.Equal(t, 10.0, b.OnlineDiscount())
}
