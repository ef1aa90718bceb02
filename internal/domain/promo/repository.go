package promo

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUsageExhausted is returned by IncrementUsage when the usage cap was
// reached between validation and commit.
var ErrUsageExhausted = errors.New("promo usage cap exhausted")

// Repository is the promo ledger. It exclusively owns mutation of the usage
// counter.
type Repository interface {
	Save(ctx context.Context, p *PromoCode) error

	// FindActiveByCode looks up an active promo by code, case-insensitively.
	// Returns nil with no error when no active record matches.
	FindActiveByCode(ctx context.Context, code string) (*PromoCode, error)

	FindByID(ctx context.Context, id uuid.UUID) (*PromoCode, error)
	List(ctx context.Context) ([]*PromoCode, error)

	// Delete hard-deletes a promo. Historical bookings keep a denormalized
	// copy of the code and discount amount, so nothing dangles.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage consumes one usage slot as a single conditional write:
	// the counter advances only while below the cap (or when uncapped).
	// Returns ErrUsageExhausted if no slot remained.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
