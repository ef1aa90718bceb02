package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	promoDomain "github.com/openpark/service-booking/internal/domain/promo"
	"github.com/openpark/service-booking/internal/platform/domain"
)

// PromoModel is the GORM model for the promo_codes table.
type PromoModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code         string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	DiscountKind string     `gorm:"type:varchar(20);not null"`
	Value        float64    `gorm:"type:decimal(10,2);not null"`
	MinAmount    float64    `gorm:"type:decimal(10,2);not null;default:0"`
	MaxUses      int        `gorm:"not null;default:0"`
	UsedCount    int        `gorm:"not null;default:0"`
	ValidFrom    *time.Time `gorm:"type:date"`
	ValidTo      *time.Time `gorm:"type:date"`
	AllowOnline  bool       `gorm:"not null;default:true"`
	AllowCash    bool       `gorm:"not null;default:true"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null"`
}

// TableName sets the table name.
func (PromoModel) TableName() string { return "promo_codes" }

// GormPromoRepository implements the promo ledger using GORM.
type GormPromoRepository struct {
	db *gorm.DB
}

// NewGormPromoRepository creates a new GormPromoRepository.
func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// Save persists a new promo code.
func (r *GormPromoRepository) Save(ctx context.Context, p *promoDomain.PromoCode) error {
	model := toPromoModel(p)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindActiveByCode returns the active promo matching the code
// case-insensitively, or nil when none matches.
func (r *GormPromoRepository) FindActiveByCode(ctx context.Context, code string) (*promoDomain.PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var model PromoModel
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ? AND active = ?", code, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPromoDomain(&model), nil
}

// FindByID returns a promo code by ID.
func (r *GormPromoRepository) FindByID(ctx context.Context, id uuid.UUID) (*promoDomain.PromoCode, error) {
	var model PromoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("PromoCode", id.String())
		}
		return nil, err
	}
	return toPromoDomain(&model), nil
}

// List returns all promo codes, newest first.
func (r *GormPromoRepository) List(ctx context.Context) ([]*promoDomain.PromoCode, error) {
	var models []PromoModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	promos := make([]*promoDomain.PromoCode, len(models))
	for i := range models {
		promos[i] = toPromoDomain(&models[i])
	}
	return promos, nil
}

// Delete hard-deletes a promo code.
func (r *GormPromoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PromoModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("PromoCode", id.String())
	}
	return nil
}

// IncrementUsage advances the usage counter with a single conditional write,
// so two concurrent commits cannot both take the last slot.
func (r *GormPromoRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&PromoModel{}).
		Where("id = ? AND (max_uses = 0 OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promoDomain.ErrUsageExhausted
	}
	return nil
}

func toPromoModel(p *promoDomain.PromoCode) PromoModel {
	return PromoModel{
		ID:           p.ID(),
		Code:         p.Code(),
		DiscountKind: string(p.Kind()),
		Value:        p.Value(),
		MinAmount:    p.MinAmount(),
		MaxUses:      p.MaxUses(),
		UsedCount:    p.UsedCount(),
		ValidFrom:    p.ValidFrom(),
		ValidTo:      p.ValidTo(),
		AllowOnline:  p.AllowOnline(),
		AllowCash:    p.AllowCash(),
		Active:       p.Active(),
		CreatedAt:    p.CreatedAt(),
	}
}

func toPromoDomain(m *PromoModel) *promoDomain.PromoCode {
	return promoDomain.Reconstruct(
		m.ID, m.Code, promoDomain.DiscountKind(m.DiscountKind),
		m.Value, m.MinAmount,
		m.MaxUses, m.UsedCount,
		m.ValidFrom, m.ValidTo,
		m.AllowOnline, m.AllowCash, m.Active,
		m.CreatedAt,
	)
}
