package pricing

import (
	"strings"
	"time"

	"github.com/openpark/service-booking/internal/platform/domain"
)

// Request is the input to a price quote.
type Request struct {
	ParkingType   ParkingType
	Start         time.Time
	End           time.Time
	PaymentMethod PaymentMethod
	PromoCode     string
}

// Breakdown is the fully itemized result of a quote. All amounts are
// 2-decimal currency units.
type Breakdown struct {
	BasePrice      float64
	BookingType    BookingType
	OnlineDiscount float64
	PromoDiscount  float64
	PromoCode      string
	PromoRejected  bool
	Total          float64
	Currency       string
}

// PromoDecision is the outcome of promo validation, supplied by the caller.
// The engine only consumes it; it never touches the promo ledger.
type PromoDecision struct {
	Valid    bool
	Code     string
	Discount float64
}

// PromoDecider resolves a promo code against the amount remaining after the
// online discount. A nil decider means no promo support.
type PromoDecider func(code string, afterOnline float64) PromoDecision

// Quote computes the full price breakdown for a request. It is a pure
// function over the request and config; invoking it any number of times has
// no side effects.
//
// Discounts apply in fixed order: the online-payment discount against the
// base price, then the promo discount against the remainder. The order must
// not be swapped.
func Quote(req Request, cfg Config, decide PromoDecider) (Breakdown, error) {
	if err := validate(req); err != nil {
		return Breakdown{}, err
	}

	totalDays, normalDays, eventDays := ClassifyDays(req.Start, req.End, cfg.EventDates)
	basePrice, bookingType := BasePrice(totalDays, normalDays, eventDays, req.ParkingType, cfg)

	var onlineDiscount float64
	afterOnline := basePrice
	if req.PaymentMethod == PaymentOnline && cfg.OnlineDiscountOn && cfg.OnlineDiscountPct > 0 {
		onlineDiscount = Round2(basePrice * cfg.OnlineDiscountPct / 100)
		afterOnline = basePrice - onlineDiscount
		if afterOnline < 0 {
			afterOnline = 0
		}
	}

	b := Breakdown{
		BasePrice:      basePrice,
		BookingType:    bookingType,
		OnlineDiscount: onlineDiscount,
		Total:          afterOnline,
		Currency:       cfg.Currency,
	}

	if code := strings.TrimSpace(req.PromoCode); code != "" && decide != nil {
		decision := decide(code, afterOnline)
		if decision.Valid {
			b.PromoDiscount = decision.Discount
			b.PromoCode = decision.Code
			b.Total = afterOnline - decision.Discount
			if b.Total < 0 {
				b.Total = 0
			}
		} else {
			b.PromoRejected = true
		}
	}

	return b, nil
}

// StripPromo returns the breakdown with the promo discount removed and the
// total recomputed. Used when the usage counter could not be consumed at
// commit time.
func (b Breakdown) StripPromo() Breakdown {
	b.Total = b.BasePrice - b.OnlineDiscount
	if b.Total < 0 {
		b.Total = 0
	}
	b.PromoDiscount = 0
	b.PromoCode = ""
	b.PromoRejected = true
	return b
}

func validate(req Request) error {
	if req.ParkingType != ParkingInternal && req.ParkingType != ParkingExternal {
		return domain.NewValidationError("parking type must be internal or external")
	}
	if req.PaymentMethod != PaymentOnline && req.PaymentMethod != PaymentCash {
		return domain.NewValidationError("payment method must be online or cash")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return domain.NewValidationError("start and end date/time are required")
	}
	if !req.End.After(req.Start) {
		return domain.NewValidationError("end date/time must be after start date/time")
	}
	return nil
}
