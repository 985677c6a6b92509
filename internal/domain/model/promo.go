package model

import (
	"strings"
	"time"
)

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

// ScopeType restricts a promo to a subset of the catalog.
type ScopeType string

const (
	ScopeTypeGlobal   ScopeType = "global"
	ScopeTypeCategory ScopeType = "category"
	ScopeTypeProduct  ScopeType = "product"
)

// PromoCode is an admin-managed discount code. Codes are stored normalized
// to uppercase and matched case-insensitively. DeletedAt implements soft
// delete; deleted codes are excluded from lookups.
type PromoCode struct {
	ID             string
	Code           string
	DiscountType   DiscountType
	DiscountValue  float64
	MinOrderValue  *float64
	MaxUsesTotal   *int
	MaxUsesPerUser *int
	UsageCount     int
	ScopeType      ScopeType
	ScopeValue     string
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	Stackable      bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// ScopeValues splits the comma-separated scope list, trimmed and lowercased.
func (p PromoCode) ScopeValues() []string {
	if p.ScopeValue == "" {
		return nil
	}
	parts := strings.Split(p.ScopeValue, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		v := strings.ToLower(strings.TrimSpace(part))
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// PromoRedemption is the append-only record of a promo applied to a paid
// order. At most one exists per (promo, order) pair.
type PromoRedemption struct {
	ID              string
	PromoCodeID     string
	OrderID         string
	UserID          *string
	Email           string
	DiscountApplied float64
	OriginalTotal   float64
	FinalTotal      float64
	CreatedAt       time.Time
}
