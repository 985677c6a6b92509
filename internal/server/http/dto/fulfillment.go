package dto

import "time"

// FulfillmentStatusResponse reports delivery progress for an order.
type FulfillmentStatusResponse struct {
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	ItemsFulfilled int       `json:"items_fulfilled"`
	ItemsTotal     int       `json:"items_total"`
	AllFulfilled   bool      `json:"all_fulfilled"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeliveryLinkResponse carries an order-level signed download link.
type DeliveryLinkResponse struct {
	OrderID   string    `json:"order_id"`
	SignedURL string    `json:"signed_url"`
	ExpiresAt time.Time `json:"expires_at"`
	ItemCount int       `json:"item_count"`
	Message   string    `json:"message,omitempty"`
}

// RevealedKeyResponse carries one decrypted credential.
type RevealedKeyResponse struct {
	OrderID       string    `json:"order_id"`
	ItemID        string    `json:"item_id"`
	Key           string    `json:"key"`
	ContentType   string    `json:"content_type"`
	RevealedAt    time.Time `json:"revealed_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	DownloadCount int       `json:"download_count"`
}

// RecoveredItemResponse reports the post-recovery link for one item.
type RecoveredItemResponse struct {
	ItemID    string  `json:"item_id"`
	SignedURL *string `json:"signed_url"`
}

// RecoveryResponse is the outcome of re-deriving download links.
type RecoveryResponse struct {
	Recovered bool                    `json:"recovered"`
	Items     []RecoveredItemResponse `json:"items"`
}

// AuditEntryResponse is one key access record.
type AuditEntryResponse struct {
	OrderID   string    `json:"order_id"`
	ItemID    string    `json:"item_id"`
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
