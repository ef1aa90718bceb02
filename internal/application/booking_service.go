package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openpark/service-booking/internal/adapter"
	bookingDomain "github.com/openpark/service-booking/internal/domain/booking"
	"github.com/openpark/service-booking/internal/domain/pricing"
	promoDomain "github.com/openpark/service-booking/internal/domain/promo"
	"github.com/openpark/service-booking/internal/events"
	"github.com/openpark/service-booking/internal/platform/domain"
	"github.com/openpark/service-booking/internal/platform/kafka"
)

const datetimeLayout = time.RFC3339

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// QuoteRequest is the DTO for a price preview.
type QuoteRequest struct {
	ParkingType   string `json:"parking_type" binding:"required"`
	StartAt       string `json:"start_at" binding:"required"`
	EndAt         string `json:"end_at" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PromoCode     string `json:"promo_code"`
}

// QuoteDTO is the itemized price breakdown returned to callers.
type QuoteDTO struct {
	BasePrice      float64 `json:"base_price"`
	BookingType    string  `json:"booking_type"`
	OnlineDiscount float64 `json:"online_discount"`
	PromoDiscount  float64 `json:"promo_discount"`
	PromoCode      string  `json:"promo_code,omitempty"`
	PromoRejected  bool    `json:"promo_rejected,omitempty"`
	TotalPrice     float64 `json:"total_price"`
	Currency       string  `json:"currency"`
}

// CreateBookingRequest is the DTO for committing a booking.
type CreateBookingRequest struct {
	ClientRef     string `json:"client_ref" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	CarPlate      string `json:"car_plate"`
	ParkingType   string `json:"parking_type" binding:"required"`
	StartAt       string `json:"start_at" binding:"required"`
	EndAt         string `json:"end_at" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PromoCode     string `json:"promo_code"`
}

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID             uuid.UUID `json:"id"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email,omitempty"`
	CustomerPhone  string    `json:"customer_phone,omitempty"`
	CarPlate       string    `json:"car_plate,omitempty"`
	ParkingType    string    `json:"parking_type"`
	BookingType    string    `json:"booking_type"`
	PaymentMethod  string    `json:"payment_method"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	BasePrice      float64   `json:"base_price"`
	OnlineDiscount float64   `json:"online_discount"`
	PromoDiscount  float64   `json:"promo_discount"`
	PromoCode      string    `json:"promo_code,omitempty"`
	PromoRejected  bool      `json:"promo_rejected,omitempty"`
	TotalPrice     float64   `json:"total_price"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	CheckoutURL    string    `json:"checkout_url,omitempty"`
	Warning        string    `json:"warning,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalRevenue  float64          `json:"total_revenue"`
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService orchestrates the quote preview and booking commit use
// cases around the pricing engine.
type BookingService struct {
	bookings      bookingDomain.Repository
	promos        promoDomain.Repository
	checkout      adapter.CheckoutGateway
	producer      EventPublisher
	rdb           *redis.Client
	pricingCfg    pricing.Config
	stripeEnabled bool
	pendingTTL    time.Duration
	logger        *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	promos promoDomain.Repository,
	checkout adapter.CheckoutGateway,
	producer EventPublisher,
	rdb *redis.Client,
	pricingCfg pricing.Config,
	stripeEnabled bool,
	pendingTTL time.Duration,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		promos:        promos,
		checkout:      checkout,
		producer:      producer,
		rdb:           rdb,
		pricingCfg:    pricingCfg,
		stripeEnabled: stripeEnabled,
		pendingTTL:    pendingTTL,
		logger:        logger,
	}
}

// Quote computes a price preview. It never mutates anything: the promo
// ledger is only read, so calling this any number of times cannot consume a
// usage slot.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	pricingReq, err := s.toPricingRequest(req.ParkingType, req.StartAt, req.EndAt, req.PaymentMethod, req.PromoCode)
	if err != nil {
		return nil, err
	}

	breakdown, _, err := s.quote(ctx, pricingReq)
	if err != nil {
		return nil, err
	}

	return &QuoteDTO{
		BasePrice:      breakdown.BasePrice,
		BookingType:    string(breakdown.BookingType),
		OnlineDiscount: breakdown.OnlineDiscount,
		PromoDiscount:  breakdown.PromoDiscount,
		PromoCode:      breakdown.PromoCode,
		PromoRejected:  breakdown.PromoRejected,
		TotalPrice:     breakdown.Total,
		Currency:       breakdown.Currency,
	}, nil
}

// Create commits a booking: price, persist, consume the promo usage slot,
// publish the created event, and start a checkout session for online
// payments. Commits are deduped by client reference so a retry cannot
// double-increment the promo ledger.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	if req.CustomerName == "" {
		return nil, domain.NewValidationError("customer name is required")
	}

	pricingReq, err := s.toPricingRequest(req.ParkingType, req.StartAt, req.EndAt, req.PaymentMethod, req.PromoCode)
	if err != nil {
		return nil, err
	}

	if existing, err := s.dedupe(ctx, req.ClientRef); err != nil {
		return nil, err
	} else if existing != nil {
		s.logger.Info("commit deduped by client reference",
			zap.String("client_ref", req.ClientRef),
			zap.String("booking_id", existing.ID().String()),
		)
		dto := toBookingDTO(existing)
		return &dto, nil
	}

	breakdown, decision, err := s.quote(ctx, pricingReq)
	if err != nil {
		return nil, err
	}

	b := bookingDomain.NewBooking(
		req.ClientRef,
		req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.CarPlate,
		pricingReq.ParkingType, pricingReq.PaymentMethod,
		pricingReq.Start, pricingReq.End,
		breakdown,
	)

	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	promoStripped := false
	if decision.Valid {
		if err := s.promos.IncrementUsage(ctx, decision.PromoID); err != nil {
			if !errors.Is(err, promoDomain.ErrUsageExhausted) {
				s.logger.Error("promo increment failed, stripping discount",
					zap.String("promo_code", decision.Code),
					zap.Error(err),
				)
			} else {
				s.logger.Warn("promo cap reached between validation and commit",
					zap.String("promo_code", decision.Code),
				)
			}
			b.StripPromo()
			if err := s.bookings.Update(ctx, b); err != nil {
				return nil, err
			}
			promoStripped = true
		}
	}

	s.publishCreated(ctx, b)

	dto := toBookingDTO(b)
	if promoStripped || breakdown.PromoRejected {
		dto.PromoRejected = true
		dto.Warning = "promo code could not be applied"
	}

	if pricingReq.PaymentMethod == pricing.PaymentOnline && s.stripeEnabled {
		url, err := s.checkout.CreateCheckoutSession(ctx, b.ID(), b.TotalPrice(), b.Currency())
		if err != nil {
			s.logger.Error("checkout session failed, booking stays pending",
				zap.String("booking_id", b.ID().String()),
				zap.Error(err),
			)
			dto.Warning = "booking created but payment could not be started"
		} else {
			dto.CheckoutURL = url
		}
	}

	return &dto, nil
}

// PaymentResult records the outcome of a payment return. Success confirms
// the booking; cancellation leaves it pending.
func (s *BookingService) PaymentResult(ctx context.Context, bookingID uuid.UUID, success bool) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if success {
		if err := b.Confirm(); err != nil {
			return nil, err
		}
		if err := s.bookings.Update(ctx, b); err != nil {
			return nil, err
		}

		event := events.BookingConfirmedEvent{
			BookingID:  b.ID(),
			TotalPrice: b.TotalPrice(),
			Currency:   b.Currency(),
			OccurredAt: time.Now().UTC(),
		}
		if ce, err := kafka.NewCloudEvent("service-booking", events.BookingConfirmed, event); err == nil {
			if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, ce); err != nil {
				s.logger.Error("failed to publish booking confirmed event", zap.Error(err))
			}
		}
	}

	dto := toBookingDTO(b)
	return &dto, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(b)
	return &dto, nil
}

// ListAllBookings returns a paginated list of bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	revenue, counts, err := s.bookings.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalRevenue:  revenue,
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// ExpireStalePending expires online-payment bookings left pending longer
// than the configured TTL. Run periodically by the janitor schedule.
func (s *BookingService) ExpireStalePending(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.pendingTTL)
	n, err := s.bookings.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("expired stale pending bookings", zap.Int64("count", n))
	}
	return nil
}

// quote runs the pricing engine with a read-only promo decider and returns
// both the breakdown and the underlying promo decision for the commit path.
func (s *BookingService) quote(ctx context.Context, req pricing.Request) (pricing.Breakdown, promoDomain.Decision, error) {
	var decision promoDomain.Decision

	breakdown, err := pricing.Quote(req, s.pricingCfg, func(code string, afterOnline float64) pricing.PromoDecision {
		record, err := s.promos.FindActiveByCode(ctx, code)
		if err != nil {
			s.logger.Error("promo lookup failed", zap.String("code", code), zap.Error(err))
			return pricing.PromoDecision{}
		}
		if record == nil {
			return pricing.PromoDecision{}
		}

		decision = record.Evaluate(afterOnline, req.PaymentMethod, time.Now().UTC())
		return pricing.PromoDecision{
			Valid:    decision.Valid,
			Code:     decision.Code,
			Discount: decision.Discount,
		}
	})
	if err != nil {
		return pricing.Breakdown{}, promoDomain.Decision{}, err
	}

	return breakdown, decision, nil
}

// dedupe takes the commit lock for the client reference. When the lock is
// already held it returns the previously created booking, if any; a held
// lock with no booking means the earlier attempt died before persisting and
// the commit may proceed.
func (s *BookingService) dedupe(ctx context.Context, clientRef string) (*bookingDomain.Booking, error) {
	acquired, err := s.rdb.SetNX(ctx, "booking:commit:"+clientRef, 1, 24*time.Hour).Result()
	if err != nil {
		// Redis being down must not block bookings; the unique index on
		// client_ref is the backstop.
		s.logger.Warn("commit dedupe unavailable", zap.Error(err))
		return s.bookings.FindByClientRef(ctx, clientRef)
	}
	if acquired {
		return nil, nil
	}
	return s.bookings.FindByClientRef(ctx, clientRef)
}

func (s *BookingService) publishCreated(ctx context.Context, b *bookingDomain.Booking) {
	event := events.NewBookingCreatedEvent(b)
	ce, err := kafka.NewCloudEvent("service-booking", events.BookingCreated, event)
	if err != nil {
		s.logger.Error("failed to create booking created cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, ce); err != nil {
		s.logger.Error("failed to publish booking created event", zap.Error(err))
	}
}

func (s *BookingService) toPricingRequest(parkingType, startAt, endAt, paymentMethod, promoCode string) (pricing.Request, error) {
	start, err := time.Parse(datetimeLayout, startAt)
	if err != nil {
		return pricing.Request{}, domain.NewValidationError("invalid start_at format (use RFC3339)")
	}
	end, err := time.Parse(datetimeLayout, endAt)
	if err != nil {
		return pricing.Request{}, domain.NewValidationError("invalid end_at format (use RFC3339)")
	}

	return pricing.Request{
		ParkingType:   pricing.ParkingType(parkingType),
		Start:         start,
		End:           end,
		PaymentMethod: pricing.PaymentMethod(paymentMethod),
		PromoCode:     promoCode,
	}, nil
}

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:             b.ID(),
		CustomerName:   b.CustomerName(),
		CustomerEmail:  b.CustomerEmail(),
		CustomerPhone:  b.CustomerPhone(),
		CarPlate:       b.CarPlate(),
		ParkingType:    string(b.ParkingType()),
		BookingType:    string(b.BookingType()),
		PaymentMethod:  string(b.PaymentMethod()),
		StartAt:        b.StartAt(),
		EndAt:          b.EndAt(),
		BasePrice:      b.BasePrice(),
		OnlineDiscount: b.OnlineDiscount(),
		PromoDiscount:  b.PromoDiscount(),
		PromoCode:      b.PromoCode(),
		TotalPrice:     b.TotalPrice(),
		Currency:       b.Currency(),
		Status:         string(b.Status()),
		CreatedAt:      b.CreatedAt(),
	}
}
