package handlers

import (
	"context"

	"github.com/bitloot/bitloot/internal/domain/model"
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
	"github.com/bitloot/bitloot/internal/usecase"
)

// CheckoutFacade describes order creation and reads exposed via HTTP.
type CheckoutFacade interface {
	Checkout(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	Order(ctx context.Context, orderID string, caller usecase.CallerContext) (*model.Order, []model.OrderItem, error)
}

// FulfillmentFacade encapsulates key delivery operations exposed via HTTP.
type FulfillmentFacade interface {
	FulfillmentStatus(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.FulfillmentStatus, error)
	DeliveryLink(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.DeliveryLink, error)
	RevealItemKey(ctx context.Context, orderID, itemID string, caller usecase.CallerContext) (*model.RevealedKey, error)
	RevealOrderKeys(ctx context.Context, orderID string, caller usecase.CallerContext) ([]model.RevealedKey, error)
	RecoverOrderKeys(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.RecoveryResult, error)
	DownloadWithSignature(ctx context.Context, orderID, itemID string, expires int64, sig, ipAddress, userAgent string) ([]model.RevealedKey, error)
	AuditTrail(ctx context.Context, orderID string) ([]model.DeliveryAudit, error)
}

// PromoFacade provides promo validation and administration.
type PromoFacade interface {
	ValidatePromo(ctx context.Context, code string, orderTotal float64, pctx usecase.PromoContext) (*usecase.ValidationResult, error)
	CreatePromo(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error)
	GetPromo(ctx context.Context, id string) (*model.PromoCode, error)
	ListPromos(ctx context.Context) ([]model.PromoCode, error)
	UpdatePromo(ctx context.Context, promo *model.PromoCode) error
	DeletePromo(ctx context.Context, id string) error
}

// WebhookFacade processes payment gateway callbacks.
type WebhookFacade interface {
	VerifyWebhookSignature(body []byte, signature string) bool
	HandlePaymentEvent(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
}

// HealthFacade reports backing store health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	CheckoutFacade
	FulfillmentFacade
	PromoFacade
	WebhookFacade
	HealthFacade
	ParseUserToken(token string) (*pkgAuth.Claims, error)
}
