package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/server/http/dto"
	"github.com/bitloot/bitloot/internal/usecase"
)

// PromoHandler manages promo validation and admin CRUD endpoints.
type PromoHandler struct {
	facade PromoFacade
}

// NewPromoHandler constructs PromoHandler.
func NewPromoHandler(facade PromoFacade) *PromoHandler {
	return &PromoHandler{facade: facade}
}

// Validate handles POST /api/promos/validate. Validation failures are part
// of the payload; the endpoint answers 200 unless the request is malformed.
func (h *PromoHandler) Validate(c *gin.Context) {
	var req dto.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.ValidatePromo(c.Request.Context(), req.Code, req.OrderTotal, usecase.PromoContext{
		UserID:              req.UserID,
		Email:               req.Email,
		ProductIDs:          req.ProductIDs,
		CategoryIDs:         req.CategoryIDs,
		AppliedPromoCodeIDs: req.AppliedPromoCodeIDs,
	})
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toPromoOutcome(result))
}

// Create handles POST /api/admin/promos.
func (h *PromoHandler) Create(c *gin.Context) {
	var req dto.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	created, err := h.facade.CreatePromo(c.Request.Context(), promoFromRequest(req))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusCreated, toPromoResponse(*created))
}

// Get handles GET /api/admin/promos/:id.
func (h *PromoHandler) Get(c *gin.Context) {
	promo, err := h.facade.GetPromo(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toPromoResponse(*promo))
}

// List handles GET /api/admin/promos.
func (h *PromoHandler) List(c *gin.Context) {
	promos, err := h.facade.ListPromos(c.Request.Context())
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	resp := make([]dto.PromoResponse, 0, len(promos))
	for _, promo := range promos {
		resp = append(resp, toPromoResponse(promo))
	}
	c.JSON(http.StatusOK, resp)
}

// Update handles PATCH /api/admin/promos/:id.
func (h *PromoHandler) Update(c *gin.Context) {
	var req dto.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	promo := promoFromRequest(req)
	promo.ID = c.Param("id")
	if err := h.facade.UpdatePromo(c.Request.Context(), promo); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toPromoResponse(*promo))
}

// Delete handles DELETE /api/admin/promos/:id.
func (h *PromoHandler) Delete(c *gin.Context) {
	if err := h.facade.DeletePromo(c.Request.Context(), c.Param("id")); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func promoFromRequest(req dto.PromoRequest) *model.PromoCode {
	return &model.PromoCode{
		Code:           req.Code,
		DiscountType:   model.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		MinOrderValue:  req.MinOrderValue,
		MaxUsesTotal:   req.MaxUsesTotal,
		MaxUsesPerUser: req.MaxUsesPerUser,
		ScopeType:      model.ScopeType(req.ScopeType),
		ScopeValue:     req.ScopeValue,
		StartsAt:       req.StartsAt,
		ExpiresAt:      req.ExpiresAt,
		Stackable:      req.Stackable,
		IsActive:       req.IsActive,
	}
}

func toPromoResponse(promo model.PromoCode) dto.PromoResponse {
	return dto.PromoResponse{
		ID:             promo.ID,
		Code:           promo.Code,
		DiscountType:   string(promo.DiscountType),
		DiscountValue:  promo.DiscountValue,
		MinOrderValue:  promo.MinOrderValue,
		MaxUsesTotal:   promo.MaxUsesTotal,
		MaxUsesPerUser: promo.MaxUsesPerUser,
		UsageCount:     promo.UsageCount,
		ScopeType:      string(promo.ScopeType),
		ScopeValue:     promo.ScopeValue,
		StartsAt:       promo.StartsAt,
		ExpiresAt:      promo.ExpiresAt,
		Stackable:      promo.Stackable,
		IsActive:       promo.IsActive,
		CreatedAt:      promo.CreatedAt,
		UpdatedAt:      promo.UpdatedAt,
	}
}

func toPromoOutcome(result *usecase.ValidationResult) dto.PromoOutcomeResponse {
	return dto.PromoOutcomeResponse{
		Valid:          result.Valid,
		ErrorCode:      result.ErrorCode,
		Message:        result.Message,
		PromoCodeID:    result.PromoCodeID,
		Code:           result.Code,
		DiscountType:   string(result.DiscountType),
		DiscountAmount: result.DiscountAmount,
		FinalTotal:     result.FinalTotal,
	}
}
