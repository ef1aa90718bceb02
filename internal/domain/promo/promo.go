package promo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openpark/service-booking/internal/domain/pricing"
)

// DiscountKind is how a promo's discount value is interpreted.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

// PromoCode is the aggregate root for promotional codes. Codes are stored
// upper-cased and matched case-insensitively. The usage counter only ever
// moves forward, and only via the ledger's conditional increment.
type PromoCode struct {
	id          uuid.UUID
	code        string
	kind        DiscountKind
	value       float64
	minAmount   float64
	maxUses     int
	usedCount   int
	validFrom   *time.Time
	validTo     *time.Time
	allowOnline bool
	allowCash   bool
	active      bool
	createdAt   time.Time
}

// NewPromoCode creates a new promo code.
func NewPromoCode(code string, kind DiscountKind, value, minAmount float64, maxUses int, validFrom, validTo *time.Time, allowOnline, allowCash, active bool) (*PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("promo code is required")
	}
	if kind != DiscountPercent && kind != DiscountFixed {
		return nil, fmt.Errorf("invalid discount kind: %s", kind)
	}
	if value <= 0 {
		return nil, fmt.Errorf("discount value must be positive")
	}
	if kind == DiscountPercent && value > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}
	if minAmount < 0 {
		return nil, fmt.Errorf("minimum amount cannot be negative")
	}
	if maxUses < 0 {
		return nil, fmt.Errorf("usage cap cannot be negative")
	}
	if validFrom != nil && validTo != nil && validTo.Before(*validFrom) {
		return nil, fmt.Errorf("valid_to must not be before valid_from")
	}

	return &PromoCode{
		id:          uuid.New(),
		code:        code,
		kind:        kind,
		value:       value,
		minAmount:   minAmount,
		maxUses:     maxUses,
		usedCount:   0,
		validFrom:   validFrom,
		validTo:     validTo,
		allowOnline: allowOnline,
		allowCash:   allowCash,
		active:      active,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a PromoCode from persistence.
func Reconstruct(id uuid.UUID, code string, kind DiscountKind, value, minAmount float64, maxUses, usedCount int, validFrom, validTo *time.Time, allowOnline, allowCash, active bool, createdAt time.Time) *PromoCode {
	return &PromoCode{
		id: id, code: code, kind: kind, value: value, minAmount: minAmount,
		maxUses: maxUses, usedCount: usedCount,
		validFrom: validFrom, validTo: validTo,
		allowOnline: allowOnline, allowCash: allowCash, active: active,
		createdAt: createdAt,
	}
}

// Decision is the outcome of evaluating a promo against an amount. Invalid
// decisions carry a zero discount; they are advisory, never errors.
type Decision struct {
	Valid    bool
	PromoID  uuid.UUID
	Code     string
	Discount float64
}

// Evaluate decides whether the promo applies to the given amount and payment
// method on the given day, and computes the discount. It is read-only:
// consuming a usage slot is a separate ledger action taken only when a
// booking commits, never during a preview.
//
// Checks short-circuit in order: amount and active flag, validity window,
// usage cap, minimum amount, payment-method restriction, then a positive
// computed discount.
func (p *PromoCode) Evaluate(amount float64, method pricing.PaymentMethod, today time.Time) Decision {
	rejected := Decision{}

	if amount <= 0 || !p.active {
		return rejected
	}

	// Window bounds are inclusive and compared at date granularity.
	day := today.Format("2006-01-02")
	if p.validFrom != nil && day < p.validFrom.Format("2006-01-02") {
		return rejected
	}
	if p.validTo != nil && day > p.validTo.Format("2006-01-02") {
		return rejected
	}

	if p.maxUses > 0 && p.usedCount >= p.maxUses {
		return rejected
	}

	if p.minAmount > 0 && amount < p.minAmount {
		return rejected
	}

	if method == pricing.PaymentOnline && !p.allowOnline {
		return rejected
	}
	if method == pricing.PaymentCash && !p.allowCash {
		return rejected
	}

	var discount float64
	switch p.kind {
	case DiscountPercent:
		discount = pricing.Round2(amount * p.value / 100)
	case DiscountFixed:
		discount = p.value
		if discount > amount {
			discount = amount
		}
	}

	if discount <= 0 {
		return rejected
	}

	return Decision{
		Valid:    true,
		PromoID:  p.id,
		Code:     p.code,
		Discount: discount,
	}
}

// Getters.
func (p *PromoCode) ID() uuid.UUID         { return p.id }
func (p *PromoCode) Code() string          { return p.code }
func (p *PromoCode) Kind() DiscountKind    { return p.kind }
func (p *PromoCode) Value() float64        { return p.value }
func (p *PromoCode) MinAmount() float64    { return p.minAmount }
func (p *PromoCode) MaxUses() int          { return p.maxUses }
func (p *PromoCode) UsedCount() int        { return p.usedCount }
func (p *PromoCode) ValidFrom() *time.Time { return p.validFrom }
func (p *PromoCode) ValidTo() *time.Time   { return p.validTo }
func (p *PromoCode) AllowOnline() bool     { return p.allowOnline }
func (p *PromoCode) AllowCash() bool       { return p.allowCash }
func (p *PromoCode) Active() bool          { return p.active }
func (p *PromoCode) CreatedAt() time.Time  { return p.createdAt }
