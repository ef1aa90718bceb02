package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/openpark/service-booking/internal/domain/booking"
	"github.com/openpark/service-booking/internal/domain/pricing"
	"github.com/openpark/service-booking/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table. Price breakdown
// columns are denormalized copies taken at commit time.
type BookingModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientRef      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CustomerName   string    `gorm:"type:varchar(255);not null"`
	CustomerEmail  string    `gorm:"type:varchar(255)"`
	CustomerPhone  string    `gorm:"type:varchar(50)"`
	CarPlate       string    `gorm:"type:varchar(50)"`
	ParkingType    string    `gorm:"type:varchar(20);not null"`
	BookingType    string    `gorm:"type:varchar(20);not null"`
	PaymentMethod  string    `gorm:"type:varchar(20);not null"`
	StartAt        time.Time `gorm:"type:timestamptz;not null"`
	EndAt          time.Time `gorm:"type:timestamptz;not null"`
	BasePrice      float64   `gorm:"type:decimal(10,2);not null;default:0"`
	OnlineDiscount float64   `gorm:"type:decimal(10,2);not null;default:0"`
	PromoDiscount  float64   `gorm:"type:decimal(10,2);not null;default:0"`
	PromoCode      string    `gorm:"type:varchar(100)"`
	TotalPrice     float64   `gorm:"type:decimal(10,2);not null;default:0"`
	Currency       string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt      time.Time `gorm:"type:timestamptz;not null"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string { return "bookings" }

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists changes to an existing booking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID retrieves a booking by its unique ID.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// FindByClientRef retrieves a booking by commit reference, or nil when no
// booking carries it.
func (r *GormBookingRepository) FindByClientRef(ctx context.Context, clientRef string) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).Where("client_ref = ?", clientRef).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// ListAll retrieves bookings with pagination, newest first (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total)

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings, total, nil
}

// GetStats returns total confirmed revenue and counts by status (admin).
func (r *GormBookingRepository) GetStats(ctx context.Context) (float64, map[string]int64, error) {
	var totalRevenue float64
	r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("status = ?", string(bookingDomain.StatusConfirmed)).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&totalRevenue)

	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return 0, nil, err
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return totalRevenue, counts, nil
}

// ExpirePendingBefore marks stale pending online bookings as expired.
func (r *GormBookingRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("status = ? AND payment_method = ? AND created_at < ?",
			string(bookingDomain.StatusPending), string(pricing.PaymentOnline), cutoff).
		Updates(map[string]interface{}{
			"status":     string(bookingDomain.StatusExpired),
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func toBookingModel(b *bookingDomain.Booking) BookingModel {
	return BookingModel{
		ID:             b.ID(),
		ClientRef:      b.ClientRef(),
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
		UpdatedAt:      b.UpdatedAt(),
	}
}

func toBookingDomain(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		m.ID, m.ClientRef,
		m.CustomerName, m.CustomerEmail, m.CustomerPhone, m.CarPlate,
		pricing.ParkingType(m.ParkingType),
		pricing.BookingType(m.BookingType),
		pricing.PaymentMethod(m.PaymentMethod),
		m.StartAt, m.EndAt,
		m.BasePrice, m.OnlineDiscount, m.PromoDiscount,
		m.PromoCode, m.TotalPrice, m.Currency,
		bookingDomain.Status(m.Status),
		m.CreatedAt, m.UpdatedAt,
	)
}
