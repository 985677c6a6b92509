package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/server/http/dto"
)

// SignatureHeader carries the payment gateway HMAC over the raw body.
const SignatureHeader = "x-webhook-signature"

// WebhookHandler manages payment gateway callbacks.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Payment handles POST /api/payments/webhook.
func (h *WebhookHandler) Payment(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if !h.facade.VerifyWebhookSignature(body, c.GetHeader(SignatureHeader)) {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	var req dto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	status := model.OrderStatus(req.Status)
	if req.OrderID == "" || !status.Known() {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.HandlePaymentEvent(c.Request.Context(), req.OrderID, status)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.PaymentWebhookResponse{OrderID: order.ID, Status: string(order.Status)})
}
