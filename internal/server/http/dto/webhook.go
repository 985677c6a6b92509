package dto

// PaymentWebhookRequest is the payment gateway callback payload.
type PaymentWebhookRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// PaymentWebhookResponse acknowledges the processed event.
type PaymentWebhookResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
