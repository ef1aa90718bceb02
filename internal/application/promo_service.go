package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openpark/service-booking/internal/domain/pricing"
	promoDomain "github.com/openpark/service-booking/internal/domain/promo"
	"github.com/openpark/service-booking/internal/platform/domain"
)

const dateLayout = "2006-01-02"

// CreatePromoRequest is the DTO for creating a promo code.
type CreatePromoRequest struct {
	Code        string  `json:"code" binding:"required"`
	Kind        string  `json:"kind" binding:"required"`
	Value       float64 `json:"value" binding:"required"`
	MinAmount   float64 `json:"min_amount"`
	MaxUses     int     `json:"max_uses"`
	ValidFrom   string  `json:"valid_from"`
	ValidTo     string  `json:"valid_to"`
	AllowOnline *bool   `json:"allow_online"`
	AllowCash   *bool   `json:"allow_cash"`
	Active      *bool   `json:"active"`
}

// PromoDTO is the API representation of a promo code.
type PromoDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Kind        string    `json:"kind"`
	Value       float64   `json:"value"`
	MinAmount   float64   `json:"min_amount"`
	MaxUses     int       `json:"max_uses"`
	UsedCount   int       `json:"used_count"`
	ValidFrom   *string   `json:"valid_from,omitempty"`
	ValidTo     *string   `json:"valid_to,omitempty"`
	AllowOnline bool      `json:"allow_online"`
	AllowCash   bool      `json:"allow_cash"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidatePromoRequest is the DTO for a standalone promo check.
type ValidatePromoRequest struct {
	Code          string  `json:"code" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

// PromoValidationDTO is advisory: an inapplicable promo is a valid=false
// response, not an error.
type PromoValidationDTO struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code,omitempty"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}

// PromoService manages promo codes and standalone validation.
type PromoService struct {
	promos promoDomain.Repository
	logger *zap.Logger
}

// NewPromoService creates a new PromoService.
func NewPromoService(promos promoDomain.Repository, logger *zap.Logger) *PromoService {
	return &PromoService{promos: promos, logger: logger}
}

// CreatePromo creates a promo code.
func (s *PromoService) CreatePromo(ctx context.Context, req CreatePromoRequest) (*PromoDTO, error) {
	validFrom, err := parseOptionalDate(req.ValidFrom)
	if err != nil {
		return nil, domain.NewValidationError("invalid valid_from format (use YYYY-MM-DD)")
	}
	validTo, err := parseOptionalDate(req.ValidTo)
	if err != nil {
		return nil, domain.NewValidationError("invalid valid_to format (use YYYY-MM-DD)")
	}

	p, err := promoDomain.NewPromoCode(
		req.Code,
		promoDomain.DiscountKind(req.Kind),
		req.Value,
		req.MinAmount,
		req.MaxUses,
		validFrom,
		validTo,
		boolOrDefault(req.AllowOnline, true),
		boolOrDefault(req.AllowCash, true),
		boolOrDefault(req.Active, true),
	)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.promos.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("promo code created",
		zap.String("code", p.Code()),
		zap.String("kind", string(p.Kind())),
	)

	dto := toPromoDTO(p)
	return &dto, nil
}

// ListPromos returns all promo codes.
func (s *PromoService) ListPromos(ctx context.Context) ([]PromoDTO, error) {
	promos, err := s.promos.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]PromoDTO, len(promos))
	for i, p := range promos {
		dtos[i] = toPromoDTO(p)
	}
	return dtos, nil
}

// DeletePromo removes a promo code.
func (s *PromoService) DeletePromo(ctx context.Context, id uuid.UUID) error {
	return s.promos.Delete(ctx, id)
}

// ValidatePromo checks a code against an amount without consuming a usage
// slot. The response is advisory so the storefront can show it inline.
func (s *PromoService) ValidatePromo(ctx context.Context, req ValidatePromoRequest) (*PromoValidationDTO, error) {
	method := pricing.PaymentMethod(req.PaymentMethod)
	if method != pricing.PaymentOnline && method != pricing.PaymentCash {
		return nil, domain.NewValidationError("invalid payment method")
	}

	record, err := s.promos.FindActiveByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &PromoValidationDTO{Valid: false, Message: "promo code not found"}, nil
	}

	decision := record.Evaluate(req.Amount, method, time.Now().UTC())
	if !decision.Valid {
		return &PromoValidationDTO{Valid: false, Code: record.Code(), Message: "promo code is not applicable"}, nil
	}

	return &PromoValidationDTO{
		Valid:    true,
		Code:     decision.Code,
		Discount: decision.Discount,
		Message:  "promo code applied",
	}, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func toPromoDTO(p *promoDomain.PromoCode) PromoDTO {
	dto := PromoDTO{
		ID:          p.ID(),
		Code:        p.Code(),
		Kind:        string(p.Kind()),
		Value:       p.Value(),
		MinAmount:   p.MinAmount(),
		MaxUses:     p.MaxUses(),
		UsedCount:   p.UsedCount(),
		AllowOnline: p.AllowOnline(),
		AllowCash:   p.AllowCash(),
		Active:      p.Active(),
		CreatedAt:   p.CreatedAt(),
	}
	if p.ValidFrom() != nil {
		v := p.ValidFrom().Format(dateLayout)
		dto.ValidFrom = &v
	}
	if p.ValidTo() != nil {
		v := p.ValidTo().Format(dateLayout)
		dto.ValidTo = &v
	}
	return dto
}
