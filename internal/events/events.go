package events

import (
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/openpark/service-booking/internal/domain/booking"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
)

// Event types carried on TopicBookingEvents.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
)

// BookingCreatedEvent carries the full finalized booking record, breakdown
// and contact info included, so downstream consumers never need to read our
// tables.
type BookingCreatedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
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
	TotalPrice     float64   `json:"total_price"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent signals a successful payment return.
type BookingConfirmedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	TotalPrice float64   `json:"total_price"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBookingCreatedEvent builds the event payload from a booking aggregate.
func NewBookingCreatedEvent(b *bookingDomain.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:      b.ID(),
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
		OccurredAt:     time.Now().UTC(),
	}
}
