package model

import "time"

// OrderStatus describes payment and fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusCreated       OrderStatus = "created"
	OrderStatusWaiting       OrderStatus = "waiting"
	OrderStatusConfirming    OrderStatus = "confirming"
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusSending       OrderStatus = "sending"
	OrderStatusPaid          OrderStatus = "paid"
	OrderStatusPartiallyPaid OrderStatus = "partially_paid"
	OrderStatusUnderpaid     OrderStatus = "underpaid"
	OrderStatusFailed        OrderStatus = "failed"
	OrderStatusFinished      OrderStatus = "finished"
	OrderStatusFulfilled     OrderStatus = "fulfilled"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// PaymentObserved reports whether the gateway has confirmed payment and the
// order is eligible for fulfillment. Fulfilled is terminal and excluded.
func (s OrderStatus) PaymentObserved() bool {
	switch s {
	case OrderStatusPaid, OrderStatusConfirming, OrderStatusConfirmed,
		OrderStatusSending, OrderStatusPartiallyPaid, OrderStatusFinished:
		return true
	}
	return false
}

// Known reports whether the value is a recognized lifecycle status.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusCreated, OrderStatusWaiting, OrderStatusConfirming,
		OrderStatusConfirmed, OrderStatusSending, OrderStatusPaid,
		OrderStatusPartiallyPaid, OrderStatusUnderpaid, OrderStatusFailed,
		OrderStatusFinished, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// Order describes a storefront purchase. UserID is nil for guest checkouts.
type Order struct {
	ID            string
	Email         string
	UserID        *string
	Status        OrderStatus
	Total         float64
	PromoCodeID   *string
	PromoDiscount float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is a purchased position. EncryptedKey holds the sealed
// credential blob once fulfillment acquired it; plaintext is never stored.
type OrderItem struct {
	ID            string
	OrderID       string
	ProductID     string
	CategoryID    string
	Quantity      int
	UnitPrice     float64
	EncryptedKey  []byte
	SignedURL     *string
	LinkExpiresAt *time.Time
	DownloadCount int
}

// HasKey reports whether ciphertext has been stored for the item.
func (i OrderItem) HasKey() bool {
	return len(i.EncryptedKey) > 0
}
