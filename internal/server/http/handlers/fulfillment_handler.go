package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/server/http/dto"
)

// FulfillmentHandler manages key delivery endpoints.
type FulfillmentHandler struct {
	facade FulfillmentFacade
	health HealthFacade
}

// NewFulfillmentHandler constructs FulfillmentHandler.
func NewFulfillmentHandler(facade FulfillmentFacade, health HealthFacade) *FulfillmentHandler {
	return &FulfillmentHandler{facade: facade, health: health}
}

// Status handles GET /api/fulfillment/:id/status.
func (h *FulfillmentHandler) Status(c *gin.Context) {
	status, err := h.facade.FulfillmentStatus(c.Request.Context(), c.Param("id"), CurrentCaller(c))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.FulfillmentStatusResponse{
		OrderID:        status.OrderID,
		Status:         string(status.Status),
		ItemsFulfilled: status.ItemsFulfilled,
		ItemsTotal:     status.ItemsTotal,
		AllFulfilled:   status.AllFulfilled,
		UpdatedAt:      status.UpdatedAt,
	})
}

// DownloadLink handles GET /api/fulfillment/:id/download-link.
func (h *FulfillmentHandler) DownloadLink(c *gin.Context) {
	link, err := h.facade.DeliveryLink(c.Request.Context(), c.Param("id"), CurrentCaller(c))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.DeliveryLinkResponse{
		OrderID:   link.OrderID,
		SignedURL: link.SignedURL,
		ExpiresAt: link.ExpiresAt,
		ItemCount: link.ItemCount,
		Message:   link.Message,
	})
}

// Reveal handles POST /api/fulfillment/:id/reveal/:itemId and the admin
// variant POST /api/fulfillment/:id/reveal-key/:itemId.
func (h *FulfillmentHandler) Reveal(c *gin.Context) {
	revealed, err := h.facade.RevealItemKey(c.Request.Context(), c.Param("id"), c.Param("itemId"), CurrentCaller(c))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toRevealedResponse(*revealed))
}

// Recover handles POST /api/fulfillment/:id/recover.
func (h *FulfillmentHandler) Recover(c *gin.Context) {
	result, err := h.facade.RecoverOrderKeys(c.Request.Context(), c.Param("id"), CurrentCaller(c))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	resp := dto.RecoveryResponse{Recovered: result.Recovered, Items: make([]dto.RecoveredItemResponse, 0, len(result.Items))}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, dto.RecoveredItemResponse{ItemID: item.ItemID, SignedURL: item.SignedURL})
	}
	c.JSON(http.StatusOK, resp)
}

// Download handles GET /api/fulfillment/:id/download and
// GET /api/fulfillment/:id/download/:itemId, the signed URL entry points.
func (h *FulfillmentHandler) Download(c *gin.Context) {
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	revealed, err := h.facade.DownloadWithSignature(
		c.Request.Context(),
		c.Param("id"),
		c.Param("itemId"),
		expires,
		c.Query("sig"),
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	resp := make([]dto.RevealedKeyResponse, 0, len(revealed))
	for _, key := range revealed {
		resp = append(resp, toRevealedResponse(key))
	}
	c.JSON(http.StatusOK, resp)
}

// Audit handles GET /api/admin/orders/:id/audit.
func (h *FulfillmentHandler) Audit(c *gin.Context) {
	entries, err := h.facade.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	resp := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.AuditEntryResponse{
			OrderID:   entry.OrderID,
			ItemID:    entry.ItemID,
			Method:    string(entry.Method),
			Success:   entry.Success,
			IPAddress: entry.IPAddress,
			UserAgent: entry.UserAgent,
			CreatedAt: entry.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /api/fulfillment/health/check.
func (h *FulfillmentHandler) Health(c *gin.Context) {
	if err := h.health.HealthCheck(c.Request.Context()); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}

func toRevealedResponse(key model.RevealedKey) dto.RevealedKeyResponse {
	return dto.RevealedKeyResponse{
		OrderID:       key.OrderID,
		ItemID:        key.ItemID,
		Key:           key.PlainKey,
		ContentType:   key.ContentType,
		RevealedAt:    key.RevealedAt,
		ExpiresAt:     key.ExpiresAt,
		DownloadCount: key.DownloadCount,
	}
}
