package repository

import (
	"context"

	"github.com/bitloot/bitloot/internal/domain/model"
)

// PromoRepository describes persistence operations with promo codes and
// their redemption history.
type PromoRepository interface {
	Create(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error)
	GetByID(ctx context.Context, id string) (*model.PromoCode, error)

	// GetByCode matches case-insensitively and excludes soft-deleted codes.
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)

	List(ctx context.Context) ([]model.PromoCode, error)
	Update(ctx context.Context, promo *model.PromoCode) error
	SoftDelete(ctx context.Context, id string) error

	// CountRedemptions counts prior redemptions of a promo attributable to
	// an identity, matched by user id or email.
	CountRedemptions(ctx context.Context, promoCodeID string, userID *string, email string) (int, error)

	// CreateRedemption inserts a redemption and increments the promo usage
	// counter in one transaction. When a redemption for the same
	// (promo, order) pair already exists it is returned unchanged with
	// created=false and the counter is left untouched.
	CreateRedemption(ctx context.Context, redemption *model.PromoRedemption) (*model.PromoRedemption, bool, error)

	GetRedemption(ctx context.Context, promoCodeID, orderID string) (*model.PromoRedemption, error)
}
