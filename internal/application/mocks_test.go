package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/openpark/service-booking/internal/domain/booking"
	promoDomain "github.com/openpark/service-booking/internal/domain/promo"
	"github.com/openpark/service-booking/internal/platform/kafka"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Save(ctx context.Context, b *bookingDomain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) Update(ctx context.Context, b *bookingDomain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*bookingDomain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindByClientRef(ctx context.Context, clientRef string) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, clientRef)
	if b, ok := args.Get(0).(*bookingDomain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, page, limit)
	var bookings []*bookingDomain.Booking
	if v, ok := args.Get(0).([]*bookingDomain.Booking); ok {
		bookings = v
	}
	return bookings, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) GetStats(ctx context.Context) (float64, map[string]int64, error) {
	args := m.Called(ctx)
	var counts map[string]int64
	if v, ok := args.Get(1).(map[string]int64); ok {
		counts = v
	}
	return args.Get(0).(float64), counts, args.Error(2)
}

func (m *mockBookingRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockPromoRepo struct {
	mock.Mock
}

func (m *mockPromoRepo) Save(ctx context.Context, p *promoDomain.PromoCode) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPromoRepo) FindActiveByCode(ctx context.Context, code string) (*promoDomain.PromoCode, error) {
	args := m.Called(ctx, code)
	if p, ok := args.Get(0).(*promoDomain.PromoCode); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromoRepo) FindByID(ctx context.Context, id uuid.UUID) (*promoDomain.PromoCode, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*promoDomain.PromoCode); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromoRepo) List(ctx context.Context) ([]*promoDomain.PromoCode, error) {
	args := m.Called(ctx)
	var promos []*promoDomain.PromoCode
	if v, ok := args.Get(0).([]*promoDomain.PromoCode); ok {
		promos = v
	}
	return promos, args.Error(1)
}

func (m *mockPromoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPromoRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCheckoutGateway struct {
	mock.Mock
}

func (m *mockCheckoutGateway) CreateCheckoutSession(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (string, error) {
	args := m.Called(ctx, bookingID, amount, currency)
	return args.String(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}
