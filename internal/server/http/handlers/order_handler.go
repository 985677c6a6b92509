package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/server/http/dto"
	"github.com/bitloot/bitloot/internal/usecase"
)

// OrderHandler manages checkout and order read endpoints.
type OrderHandler struct {
	facade CheckoutFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade CheckoutFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	input := usecase.CheckoutInput{
		Email:     req.Email,
		UserID:    req.UserID,
		PromoCode: req.PromoCode,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, usecase.CheckoutItem{
			ProductID:  item.ProductID,
			CategoryID: item.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	result, err := h.facade.Checkout(c.Request.Context(), input)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	resp := dto.CheckoutResponse{
		Order:        toOrderResponse(result.Order, result.Items),
		SessionToken: result.SessionToken,
	}
	if result.Promo != nil {
		outcome := toPromoOutcome(result.Promo)
		resp.Promo = &outcome
	}
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, items, err := h.facade.Order(c.Request.Context(), c.Param("id"), CurrentCaller(c))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order, items))
}

func toOrderResponse(order *model.Order, items []model.OrderItem) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		Email:         order.Email,
		Status:        string(order.Status),
		Total:         order.Total,
		PromoCodeID:   order.PromoCodeID,
		PromoDiscount: order.PromoDiscount,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			CategoryID:    item.CategoryID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Delivered:     item.HasKey(),
			SignedURL:     item.SignedURL,
			LinkExpiresAt: item.LinkExpiresAt,
			DownloadCount: item.DownloadCount,
		})
	}
	return resp
}
