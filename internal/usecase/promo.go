package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
)

// Validation error codes returned to clients as a structured result, never
// as HTTP errors.
const (
	ErrCodeInvalidOrderTotal   = "INVALID_ORDER_TOTAL"
	ErrCodePromoNotFound       = "PROMO_NOT_FOUND"
	ErrCodePromoInactive       = "PROMO_INACTIVE"
	ErrCodePromoNotStarted     = "PROMO_NOT_STARTED"
	ErrCodePromoExpired        = "PROMO_EXPIRED"
	ErrCodePromoMaxUses        = "PROMO_MAX_USES_REACHED"
	ErrCodePromoUserLimit      = "PROMO_USER_LIMIT_REACHED"
	ErrCodePromoMinOrder       = "PROMO_MIN_ORDER_NOT_MET"
	ErrCodePromoScopeMismatch  = "PROMO_SCOPE_MISMATCH"
	ErrCodePromoAlreadyApplied = "PROMO_ALREADY_APPLIED"
	ErrCodePromoNotStackable   = "PROMO_NOT_STACKABLE"
)

// PromoContext describes the trial order a code is validated against.
type PromoContext struct {
	UserID              *string
	Email               string
	ProductIDs          []string
	CategoryIDs         []string
	AppliedPromoCodeIDs []string
}

// ValidationResult is the outcome of validating a code. DiscountAmount and
// FinalTotal use 8-decimal fixed-point strings.
type ValidationResult struct {
	Valid          bool
	ErrorCode      string
	Message        string
	PromoCodeID    string
	Code           string
	DiscountType   model.DiscountType
	DiscountAmount string
	FinalTotal     string
}

// RedemptionInput records a promo applied to a paid order.
type RedemptionInput struct {
	PromoCodeID     string
	OrderID         string
	UserID          *string
	Email           string
	DiscountApplied float64
	OriginalTotal   float64
	FinalTotal      float64
}

// PromoEngine validates promo codes against order context and records
// redemptions once payment is confirmed.
type PromoEngine struct {
	promos repository.PromoRepository
	now    func() time.Time
}

// NewPromoEngine constructs PromoEngine.
func NewPromoEngine(promos repository.PromoRepository) *PromoEngine {
	return &PromoEngine{promos: promos, now: time.Now}
}

// ValidateCode runs the ordered validation pipeline. The first failing check
// short-circuits; a failing result is a business outcome, not an error.
func (e *PromoEngine) ValidateCode(ctx context.Context, code string, orderTotal float64, pctx PromoContext) (*ValidationResult, error) {
	if orderTotal <= 0 {
		return invalid(ErrCodeInvalidOrderTotal, "order total must be positive"), nil
	}

	promo, err := e.promos.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return invalid(ErrCodePromoNotFound, "promo code not found"), nil
		}
		return nil, err
	}

	if !promo.IsActive {
		return invalid(ErrCodePromoInactive, "promo code is not active"), nil
	}

	now := e.now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return invalid(ErrCodePromoNotStarted, "promo code is not active yet"), nil
	}
	if promo.ExpiresAt != nil && now.After(*promo.ExpiresAt) {
		return invalid(ErrCodePromoExpired, "promo code has expired"), nil
	}

	if promo.MaxUsesTotal != nil && promo.UsageCount >= *promo.MaxUsesTotal {
		return invalid(ErrCodePromoMaxUses, "promo code usage limit reached"), nil
	}

	if promo.MaxUsesPerUser != nil && (pctx.UserID != nil || pctx.Email != "") {
		used, err := e.promos.CountRedemptions(ctx, promo.ID, pctx.UserID, pctx.Email)
		if err != nil {
			return nil, err
		}
		if used >= *promo.MaxUsesPerUser {
			return invalid(ErrCodePromoUserLimit, "promo code usage limit for this customer reached"), nil
		}
	}

	if promo.MinOrderValue != nil && orderTotal < *promo.MinOrderValue {
		return invalid(ErrCodePromoMinOrder, fmt.Sprintf("order total below minimum of %s", FormatAmount(*promo.MinOrderValue))), nil
	}

	if promo.ScopeType != model.ScopeTypeGlobal {
		if !scopeMatches(promo, pctx) {
			return invalid(ErrCodePromoScopeMismatch, "promo code does not apply to these items"), nil
		}
	}

	if len(pctx.AppliedPromoCodeIDs) > 0 {
		if result, err := e.checkStacking(ctx, promo, pctx.AppliedPromoCodeIDs); err != nil || result != nil {
			return result, err
		}
	}

	discount := computeDiscount(promo, orderTotal)
	return &ValidationResult{
		Valid:          true,
		PromoCodeID:    promo.ID,
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountAmount: FormatAmount(discount),
		FinalTotal:     FormatAmount(orderTotal - discount),
	}, nil
}

// RecordRedemption persists a single redemption per (promo, order) pair.
// Retried webhook deliveries receive the original row unchanged.
func (e *PromoEngine) RecordRedemption(ctx context.Context, input RedemptionInput) (*model.PromoRedemption, error) {
	redemption := &model.PromoRedemption{
		PromoCodeID:     input.PromoCodeID,
		OrderID:         input.OrderID,
		UserID:          input.UserID,
		Email:           input.Email,
		DiscountApplied: input.DiscountApplied,
		OriginalTotal:   input.OriginalTotal,
		FinalTotal:      input.FinalTotal,
	}
	stored, _, err := e.promos.CreateRedemption(ctx, redemption)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (e *PromoEngine) checkStacking(ctx context.Context, promo *model.PromoCode, appliedIDs []string) (*ValidationResult, error) {
	for _, id := range appliedIDs {
		if id == promo.ID {
			return invalid(ErrCodePromoAlreadyApplied, "promo code already applied"), nil
		}
	}
	if !promo.Stackable {
		return invalid(ErrCodePromoNotStackable, "promo code cannot be combined with other codes"), nil
	}
	for _, id := range appliedIDs {
		applied, err := e.promos.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !applied.Stackable {
			return invalid(ErrCodePromoNotStackable, fmt.Sprintf("promo code %s cannot be combined with other codes", applied.Code)), nil
		}
	}
	return nil, nil
}

func scopeMatches(promo *model.PromoCode, pctx PromoContext) bool {
	var supplied []string
	switch promo.ScopeType {
	case model.ScopeTypeProduct:
		supplied = pctx.ProductIDs
	case model.ScopeTypeCategory:
		supplied = pctx.CategoryIDs
	default:
		return false
	}
	if len(supplied) == 0 {
		return false
	}
	scoped := promo.ScopeValues()
	for _, candidate := range supplied {
		c := strings.ToLower(strings.TrimSpace(candidate))
		for _, v := range scoped {
			if c == v {
				return true
			}
		}
	}
	return false
}

func computeDiscount(promo *model.PromoCode, orderTotal float64) float64 {
	var discount float64
	switch promo.DiscountType {
	case model.DiscountTypePercent:
		discount = orderTotal * promo.DiscountValue / 100
	case model.DiscountTypeFixed:
		discount = promo.DiscountValue
	}
	if discount > orderTotal {
		discount = orderTotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func invalid(code, message string) *ValidationResult {
	return &ValidationResult{Valid: false, ErrorCode: code, Message: message}
}

// FormatAmount renders a monetary value as an 8-decimal fixed-point string.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
