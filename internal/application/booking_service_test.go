package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/openpark/service-booking/internal/domain/booking"
	"github.com/openpark/service-booking/internal/domain/pricing"
	promoDomain "github.com/openpark/service-booking/internal/domain/promo"
	"github.com/openpark/service-booking/internal/platform/domain"
)

func testPricingConfig() pricing.Config {
	return pricing.Config{
		DayRate:              pricing.RateTable{Internal: 10, External: 7},
		MonthlyRate:          pricing.RateTable{Internal: 90, External: 70},
		EventRate:            pricing.RateTable{Internal: 20, External: 12},
		MonthlyThresholdDays: 28,
		OnlineDiscountOn:     true,
		OnlineDiscountPct:    10,
		Currency:             "USD",
	}
}

type serviceFixture struct {
	service   *BookingService
	bookings  *mockBookingRepo
	promos    *mockPromoRepo
	checkout  *mockCheckoutGateway
	publisher *mockPublisher
	redisMock redismock.ClientMock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	bookings := new(mockBookingRepo)
	promos := new(mockPromoRepo)
	checkout := new(mockCheckoutGateway)
	publisher := new(mockPublisher)
	rdb, redisMock := redismock.NewClientMock()

	service := NewBookingService(
		bookings, promos, checkout, publisher, rdb,
		testPricingConfig(), true, 24*time.Hour,
		zap.NewNop(),
	)

	return &serviceFixture{
		service:   service,
		bookings:  bookings,
		promos:    promos,
		checkout:  checkout,
		publisher: publisher,
		redisMock: redisMock,
	}
}

func activePercentPromo(t *testing.T) *promoDomain.PromoCode {
	t.Helper()
	p, err := promoDomain.NewPromoCode("PERCENT10", promoDomain.DiscountPercent, 10, 50, 0, nil, nil, true, true, true)
	require.NoError(t, err)
	return p
}

// 10 whole days internal: base 100, online 10% off = 90.
func quoteReq(promo string) QuoteRequest {
	return QuoteRequest{
		ParkingType:   "internal",
		StartAt:       "2026-06-01T10:00:00Z",
		EndAt:         "2026-06-11T10:00:00Z",
		PaymentMethod: "online",
		PromoCode:     promo,
	}
}

func createReq(promo string) CreateBookingRequest {
	return CreateBookingRequest{
		ClientRef:     "ref-abc",
		CustomerName:  "Jane Driver",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+49 170 000000",
		CarPlate:      "B-XY 1234",
		ParkingType:   "internal",
		StartAt:       "2026-06-01T10:00:00Z",
		EndAt:         "2026-06-11T10:00:00Z",
		PaymentMethod: "online",
		PromoCode:     promo,
	}
}

func TestBookingServiceQuote(t *testing.T) {
	t.Run("preview applies discounts in order", func(t *testing.T) {
		f := newServiceFixture(t)
		f.promos.On("FindActiveByCode", mock.Anything, "PERCENT10").Return(activePercentPromo(t), nil)

		dto, err := f.service.Quote(context.Background(), quoteReq("PERCENT10"))
		require.NoError(t, err)

		assert.Equal(t, 100.0, dto.BasePrice)
		assert.Equal(t, 10.0, dto.OnlineDiscount)
		assert.Equal(t, 9.0, dto.PromoDiscount)
		assert.Equal(t, 81.0, dto.TotalPrice)
		assert.Equal(t, "day", dto.BookingType)
		assert.False(t, dto.PromoRejected)
	})

	t.Run("preview never touches the ledger", func(t *testing.T) {
		f := newServiceFixture(t)
		f.promos.On("FindActiveByCode", mock.Anything, "PERCENT10").Return(activePercentPromo(t), nil)

		for i := 0; i < 5; i++ {
			_, err := f.service.Quote(context.Background(), quoteReq("PERCENT10"))
			require.NoError(t, err)
		}

		f.promos.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("unknown promo is advisory", func(t *testing.T) {
		f := newServiceFixture(t)
		f.promos.On("FindActiveByCode", mock.Anything, "NOPE").Return(nil, nil)

		dto, err := f.service.Quote(context.Background(), quoteReq("NOPE"))
		require.NoError(t, err)
		assert.True(t, dto.PromoRejected)
		assert.Equal(t, 90.0, dto.TotalPrice)
	})

	t.Run("bad dates rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		req := quoteReq("")
		req.StartAt = "01.06.2026"

		_, err := f.service.Quote(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestBookingServiceCreate(t *testing.T) {
	t.Run("commit persists, consumes slot, publishes, starts checkout", func(t *testing.T) {
		f := newServiceFixture(t)
		promo := activePercentPromo(t)

		f.redisMock.ExpectSetNX("booking:commit:ref-abc", 1, 24*time.Hour).SetVal(true)
		f.promos.On("FindActiveByCode", mock.Anything, "PERCENT10").Return(promo, nil)
		f.bookings.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.promos.On("IncrementUsage", mock.Anything, promo.ID()).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, "booking.events", mock.Anything).Return(nil)
		f.checkout.On("CreateCheckoutSession", mock.Anything, mock.Anything, 81.0, "USD").
			Return("https://checkout.example.test/pay/cs_123", nil)

		dto, err := f.service.Create(context.Background(), createReq("PERCENT10"))
		require.NoError(t, err)

		assert.Equal(t, 81.0, dto.TotalPrice)
		assert.Equal(t, "pending", dto.Status)
		assert.Equal(t, "https://checkout.example.test/pay/cs_123", dto.CheckoutURL)
		assert.Empty(t, dto.Warning)

		f.bookings.AssertExpectations(t)
		f.promos.AssertExpectations(t)
		f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("exhausted ledger strips promo but keeps booking", func(t *testing.T) {
		f := newServiceFixture(t)
		promo := activePercentPromo(t)

		f.redisMock.ExpectSetNX("booking:commit:ref-abc", 1, 24*time.Hour).SetVal(true)
		f.promos.On("FindActiveByCode", mock.Anything, "PERCENT10").Return(promo, nil)
		f.bookings.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.promos.On("IncrementUsage", mock.Anything, promo.ID()).Return(promoDomain.ErrUsageExhausted)
		f.bookings.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
		f.publisher.On("PublishEvent", mock.Anything, "booking.events", mock.Anything).Return(nil)
		f.checkout.On("CreateCheckoutSession", mock.Anything, mock.Anything, 90.0, "USD").
			Return("https://checkout.example.test/pay/cs_456", nil)

		dto, err := f.service.Create(context.Background(), createReq("PERCENT10"))
		require.NoError(t, err)

		assert.Equal(t, 90.0, dto.TotalPrice)
		assert.Equal(t, 0.0, dto.PromoDiscount)
		assert.Empty(t, dto.PromoCode)
		assert.True(t, dto.PromoRejected)
		assert.Equal(t, "pending", dto.Status)

		f.bookings.AssertExpectations(t)
	})

	t.Run("duplicate client ref returns existing booking", func(t *testing.T) {
		f := newServiceFixture(t)
		existing := bookingDomain.NewBooking(
			"ref-abc", "Jane Driver", "jane@example.com", "", "",
			pricing.ParkingInternal, pricing.PaymentOnline,
			time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 11, 10, 0, 0, 0, time.UTC),
			pricing.Breakdown{BasePrice: 100, BookingType: pricing.BookingDay, OnlineDiscount: 10, Total: 90, Currency: "USD"},
		)

		f.redisMock.ExpectSetNX("booking:commit:ref-abc", 1, 24*time.Hour).SetVal(false)
		f.bookings.On("FindByClientRef", mock.Anything, "ref-abc").Return(existing, nil)

		dto, err := f.service.Create(context.Background(), createReq(""))
		require.NoError(t, err)

		assert.Equal(t, existing.ID(), dto.ID)
		f.bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.promos.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("checkout failure leaves booking pending with warning", func(t *testing.T) {
		f := newServiceFixture(t)

		f.redisMock.ExpectSetNX("booking:commit:ref-abc", 1, 24*time.Hour).SetVal(true)
		f.bookings.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.publisher.On("PublishEvent", mock.Anything, "booking.events", mock.Anything).Return(nil)
		f.checkout.On("CreateCheckoutSession", mock.Anything, mock.Anything, 90.0, "USD").
			Return("", errors.New("provider down"))

		dto, err := f.service.Create(context.Background(), createReq(""))
		require.NoError(t, err)

		assert.Equal(t, "pending", dto.Status)
		assert.Empty(t, dto.CheckoutURL)
		assert.NotEmpty(t, dto.Warning)
	})

	t.Run("cash booking skips checkout", func(t *testing.T) {
		f := newServiceFixture(t)

		f.redisMock.ExpectSetNX("booking:commit:ref-abc", 1, 24*time.Hour).SetVal(true)
		f.bookings.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.publisher.On("PublishEvent", mock.Anything, "booking.events", mock.Anything).Return(nil)

		req := createReq("")
		req.PaymentMethod = "cash"

		dto, err := f.service.Create(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 100.0, dto.TotalPrice)
		assert.Empty(t, dto.CheckoutURL)
		f.checkout.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing customer name rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		req := createReq("")
		req.CustomerName = ""

		_, err := f.service.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		f.bookings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBookingServicePaymentResult(t *testing.T) {
	pendingBooking := func() *bookingDomain.Booking {
		return bookingDomain.NewBooking(
			"ref-abc", "Jane Driver", "", "", "",
			pricing.ParkingInternal, pricing.PaymentOnline,
			time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 11, 10, 0, 0, 0, time.UTC),
			pricing.Breakdown{BasePrice: 100, BookingType: pricing.BookingDay, OnlineDiscount: 10, Total: 90, Currency: "USD"},
		)
	}

	t.Run("success confirms and publishes", func(t *testing.T) {
		f := newServiceFixture(t)
		b := pendingBooking()

		f.bookings.On("FindByID", mock.Anything, b.ID()).Return(b, nil)
		f.bookings.On("Update", mock.Anything, b).Return(nil)
		f.publisher.On("PublishEvent", mock.Anything, "booking.events", mock.Anything).Return(nil)

		dto, err := f.service.PaymentResult(context.Background(), b.ID(), true)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", dto.Status)
	})

	t.Run("cancel keeps booking pending", func(t *testing.T) {
		f := newServiceFixture(t)
		b := pendingBooking()

		f.bookings.On("FindByID", mock.Anything, b.ID()).Return(b, nil)

		dto, err := f.service.PaymentResult(context.Background(), b.ID(), false)
		require.NoError(t, err)
		assert.Equal(t, "pending", dto.Status)
		f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("confirming twice fails", func(t *testing.T) {
		f := newServiceFixture(t)
		b := pendingBooking()
		require.NoError(t, b.Confirm())

		f.bookings.On("FindByID", mock.Anything, b.ID()).Return(b, nil)

		_, err := f.service.PaymentResult(context.Background(), b.ID(), true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
	})
}

func TestBookingServiceExpireStalePending(t *testing.T) {
	f := newServiceFixture(t)
	f.bookings.On("ExpirePendingBefore", mock.Anything, mock.Anything).Return(int64(3), nil)

	require.NoError(t, f.service.ExpireStalePending(context.Background()))
	f.bookings.AssertExpectations(t)
}
