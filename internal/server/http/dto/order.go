package dto

import "time"

// CheckoutItemRequest is one catalog position in a checkout request.
type CheckoutItemRequest struct {
	ProductID  string  `json:"product_id"`
	CategoryID string  `json:"category_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// CheckoutRequest creates an order.
type CheckoutRequest struct {
	Email     string                `json:"email"`
	UserID    *string               `json:"user_id,omitempty"`
	PromoCode string                `json:"promo_code,omitempty"`
	Items     []CheckoutItemRequest `json:"items"`
}

// CheckoutResponse returns the created order and its session token.
type CheckoutResponse struct {
	Order        OrderResponse         `json:"order"`
	SessionToken string                `json:"session_token"`
	Promo        *PromoOutcomeResponse `json:"promo,omitempty"`
}

// OrderItemResponse is the public view of an order item. Key material is
// never present; only link metadata and the download counter.
type OrderItemResponse struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"product_id"`
	CategoryID     string     `json:"category_id,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPrice      float64    `json:"unit_price"`
	Delivered      bool       `json:"delivered"`
	SignedURL      *string    `json:"signed_url,omitempty"`
	LinkExpiresAt  *time.Time `json:"link_expires_at,omitempty"`
	DownloadCount  int        `json:"download_count"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID            string              `json:"id"`
	Email         string              `json:"email"`
	Status        string              `json:"status"`
	Total         float64             `json:"total"`
	PromoCodeID   *string             `json:"promo_code_id,omitempty"`
	PromoDiscount float64             `json:"promo_discount,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}
