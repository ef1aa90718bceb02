package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/openpark/service-booking/internal/domain/pricing"
	"github.com/openpark/service-booking/internal/platform/domain"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Booking is the aggregate root for a parking reservation. The price
// breakdown is denormalized onto the booking at commit time; it never changes
// retroactively when rates or promos change.
type Booking struct {
	id             uuid.UUID
	clientRef      string
	customerName   string
	customerEmail  string
	customerPhone  string
	carPlate       string
	parkingType    pricing.ParkingType
	bookingType    pricing.BookingType
	paymentMethod  pricing.PaymentMethod
	startAt        time.Time
	endAt          time.Time
	basePrice      float64
	onlineDiscount float64
	promoDiscount  float64
	promoCode      string
	totalPrice     float64
	currency       string
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

// NewBooking creates a pending booking from a computed price breakdown.
func NewBooking(clientRef, customerName, customerEmail, customerPhone, carPlate string, parkingType pricing.ParkingType, paymentMethod pricing.PaymentMethod, startAt, endAt time.Time, b pricing.Breakdown) *Booking {
	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		clientRef:      clientRef,
		customerName:   customerName,
		customerEmail:  customerEmail,
		customerPhone:  customerPhone,
		carPlate:       carPlate,
		parkingType:    parkingType,
		bookingType:    b.BookingType,
		paymentMethod:  paymentMethod,
		startAt:        startAt,
		endAt:          endAt,
		basePrice:      b.BasePrice,
		onlineDiscount: b.OnlineDiscount,
		promoDiscount:  b.PromoDiscount,
		promoCode:      b.PromoCode,
		totalPrice:     b.Total,
		currency:       b.Currency,
		status:         StatusPending,
		createdAt:      now,
		updatedAt:      now,
	}
}

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(id uuid.UUID, clientRef, customerName, customerEmail, customerPhone, carPlate string, parkingType pricing.ParkingType, bookingType pricing.BookingType, paymentMethod pricing.PaymentMethod, startAt, endAt time.Time, basePrice, onlineDiscount, promoDiscount float64, promoCode string, totalPrice float64, currency string, status Status, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		id: id, clientRef: clientRef,
		customerName: customerName, customerEmail: customerEmail,
		customerPhone: customerPhone, carPlate: carPlate,
		parkingType: parkingType, bookingType: bookingType, paymentMethod: paymentMethod,
		startAt: startAt, endAt: endAt,
		basePrice: basePrice, onlineDiscount: onlineDiscount, promoDiscount: promoDiscount,
		promoCode: promoCode, totalPrice: totalPrice, currency: currency,
		status: status, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// Confirm transitions the booking from pending to confirmed after a
// successful payment return.
func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled.
func (b *Booking) Cancel() error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Expire marks a stale pending booking expired.
func (b *Booking) Expire() error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusExpired))
	}
	b.status = StatusExpired
	b.updatedAt = time.Now().UTC()
	return nil
}

// StripPromo removes the promo discount after a ledger conflict and restores
// the total to the post-online-discount amount.
func (b *Booking) StripPromo() {
	b.totalPrice = b.basePrice - b.onlineDiscount
	if b.totalPrice < 0 {
		b.totalPrice = 0
	}
	b.promoDiscount = 0
	b.promoCode = ""
	b.updatedAt = time.Now().UTC()
}

// Getters.
func (b *Booking) ID() uuid.UUID                        { return b.id }
func (b *Booking) ClientRef() string                    { return b.clientRef }
func (b *Booking) CustomerName() string                 { return b.customerName }
func (b *Booking) CustomerEmail() string                { return b.customerEmail }
func (b *Booking) CustomerPhone() string                { return b.customerPhone }
func (b *Booking) CarPlate() string                     { return b.carPlate }
func (b *Booking) ParkingType() pricing.ParkingType     { return b.parkingType }
func (b *Booking) BookingType() pricing.BookingType     { return b.bookingType }
func (b *Booking) PaymentMethod() pricing.PaymentMethod { return b.paymentMethod }
func (b *Booking) StartAt() time.Time                   { return b.startAt }
func (b *Booking) EndAt() time.Time                     { return b.endAt }
func (b *Booking) BasePrice() float64                   { return b.basePrice }
func (b *Booking) OnlineDiscount() float64              { return b.onlineDiscount }
func (b *Booking) PromoDiscount() float64               { return b.promoDiscount }
func (b *Booking) PromoCode() string                    { return b.promoCode }
func (b *Booking) TotalPrice() float64                  { return b.totalPrice }
func (b *Booking) Currency() string                     { return b.currency }
func (b *Booking) Status() Status                       { return b.status }
func (b *Booking) CreatedAt() time.Time                 { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time                 { return b.updatedAt }
