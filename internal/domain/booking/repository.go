package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Booking aggregates.
type Repository interface {
	Save(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByClientRef retrieves a booking by the caller-supplied commit
	// reference. Returns nil with no error when none exists.
	FindByClientRef(ctx context.Context, clientRef string) (*Booking, error)

	// ListAll retrieves bookings with pagination, newest first (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// GetStats returns total confirmed revenue and booking counts by status
	// (admin).
	GetStats(ctx context.Context) (totalRevenue float64, countByStatus map[string]int64, err error)

	// ExpirePendingBefore marks online-payment bookings still pending and
	// created before the cutoff as expired, returning how many changed.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
