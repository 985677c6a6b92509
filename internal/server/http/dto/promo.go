package dto

import "time"

// ValidatePromoRequest checks a code against an order draft.
type ValidatePromoRequest struct {
	Code                string   `json:"code"`
	OrderTotal          float64  `json:"order_total"`
	UserID              *string  `json:"user_id,omitempty"`
	Email               string   `json:"email,omitempty"`
	ProductIDs          []string `json:"product_ids,omitempty"`
	CategoryIDs         []string `json:"category_ids,omitempty"`
	AppliedPromoCodeIDs []string `json:"applied_promo_code_ids,omitempty"`
}

// PromoOutcomeResponse is the validation verdict. Failures are payload
// content, not transport errors; the endpoint always answers 200.
type PromoOutcomeResponse struct {
	Valid          bool   `json:"valid"`
	ErrorCode      string `json:"error_code,omitempty"`
	Message        string `json:"message,omitempty"`
	PromoCodeID    string `json:"promo_code_id,omitempty"`
	Code           string `json:"code,omitempty"`
	DiscountType   string `json:"discount_type,omitempty"`
	DiscountAmount string `json:"discount_amount,omitempty"`
	FinalTotal     string `json:"final_total,omitempty"`
}

// PromoRequest creates or updates a promo code.
type PromoRequest struct {
	Code           string     `json:"code"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  float64    `json:"discount_value"`
	MinOrderValue  *float64   `json:"min_order_value,omitempty"`
	MaxUsesTotal   *int       `json:"max_uses_total,omitempty"`
	MaxUsesPerUser *int       `json:"max_uses_per_user,omitempty"`
	ScopeType      string     `json:"scope_type"`
	ScopeValue     string     `json:"scope_value,omitempty"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Stackable      bool       `json:"stackable"`
	IsActive       bool       `json:"is_active"`
}

// PromoResponse is the admin view of a promo code.
type PromoResponse struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  float64    `json:"discount_value"`
	MinOrderValue  *float64   `json:"min_order_value,omitempty"`
	MaxUsesTotal   *int       `json:"max_uses_total,omitempty"`
	MaxUsesPerUser *int       `json:"max_uses_per_user,omitempty"`
	UsageCount     int        `json:"usage_count"`
	ScopeType      string     `json:"scope_type"`
	ScopeValue     string     `json:"scope_value,omitempty"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Stackable      bool       `json:"stackable"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
