package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/bitloot/bitloot/internal/config"
	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
	"github.com/bitloot/bitloot/internal/pkg/link"
	"github.com/bitloot/bitloot/internal/usecase"
)

// HealthChecker reports backing store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StoreFacade is the application surface the HTTP layer and the worker
// talk to. Every sensitive read goes through the ownership resolver before
// any key material or order detail leaves the facade.
type StoreFacade struct {
	orders      *usecase.OrderUseCase
	promos      *usecase.PromoEngine
	resolver    *usecase.OwnershipResolver
	delivery    *usecase.KeyDeliveryService
	fulfillment *usecase.FulfillmentOrchestrator
	orderStore  repository.OrderRepository
	promoStore  repository.PromoRepository
	auditStore  repository.AuditRepository
	tokens      pkgAuth.Strategy
	links       *link.Signer
	health      HealthChecker
	webhookKey  []byte
	logger      *slog.Logger
}

type facadeParams struct {
	fx.In

	Orders      *usecase.OrderUseCase
	Promos      *usecase.PromoEngine
	Resolver    *usecase.OwnershipResolver
	Delivery    *usecase.KeyDeliveryService
	Fulfillment *usecase.FulfillmentOrchestrator
	OrderStore  repository.OrderRepository
	PromoStore  repository.PromoRepository
	AuditStore  repository.AuditRepository
	Tokens      pkgAuth.Strategy
	Links       *link.Signer
	Health      HealthChecker
	Config      *config.Config
	Logger      *slog.Logger
}

func newStoreFacade(p facadeParams) *StoreFacade {
	return &StoreFacade{
		orders:      p.Orders,
		promos:      p.Promos,
		resolver:    p.Resolver,
		delivery:    p.Delivery,
		fulfillment: p.Fulfillment,
		orderStore:  p.OrderStore,
		promoStore:  p.PromoStore,
		auditStore:  p.AuditStore,
		tokens:      p.Tokens,
		links:       p.Links,
		health:      p.Health,
		webhookKey:  []byte(p.Config.WebhookSecret),
		logger:      p.Logger,
	}
}

// Checkout creates an order and issues its session token.
func (f *StoreFacade) Checkout(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	return f.orders.Checkout(ctx, input)
}

// ParseUserToken validates a bearer token and returns its claims.
func (f *StoreFacade) ParseUserToken(token string) (*pkgAuth.Claims, error) {
	return f.tokens.ParseToken(token)
}

// Order returns an order with its items after an ownership check.
func (f *StoreFacade) Order(ctx context.Context, orderID string, caller usecase.CallerContext) (*model.Order, []model.OrderItem, error) {
	order, _, err := f.authorize(ctx, orderID, caller)
	if err != nil {
		return nil, nil, err
	}
	items, err := f.orderStore.ListItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// FulfillmentStatus reports fulfillment progress to the order owner.
func (f *StoreFacade) FulfillmentStatus(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.FulfillmentStatus, error) {
	if _, _, err := f.authorize(ctx, orderID, caller); err != nil {
		return nil, err
	}
	return f.fulfillment.CheckStatus(ctx, orderID)
}

// DeliveryLink issues a fresh order-level signed download link.
func (f *StoreFacade) DeliveryLink(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.DeliveryLink, error) {
	if _, _, err := f.authorize(ctx, orderID, caller); err != nil {
		return nil, err
	}
	return f.delivery.GenerateDeliveryLink(ctx, orderID)
}

// RevealItemKey decrypts one item's credential for the order owner.
func (f *StoreFacade) RevealItemKey(ctx context.Context, orderID, itemID string, caller usecase.CallerContext) (*model.RevealedKey, error) {
	_, decision, err := f.authorize(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	return f.delivery.RevealKey(ctx, orderID, itemID, usecase.AccessInfo{
		Method:    decision.Method,
		IPAddress: caller.IPAddress,
		UserAgent: caller.UserAgent,
	})
}

// RevealOrderKeys decrypts every credential of the order.
func (f *StoreFacade) RevealOrderKeys(ctx context.Context, orderID string, caller usecase.CallerContext) ([]model.RevealedKey, error) {
	_, decision, err := f.authorize(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	return f.delivery.RevealOrder(ctx, orderID, usecase.AccessInfo{
		Method:    decision.Method,
		IPAddress: caller.IPAddress,
		UserAgent: caller.UserAgent,
	})
}

// RecoverOrderKeys re-derives signed links from stored ciphertext.
func (f *StoreFacade) RecoverOrderKeys(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.RecoveryResult, error) {
	if _, _, err := f.authorize(ctx, orderID, caller); err != nil {
		return nil, err
	}
	return f.fulfillment.RecoverOrderKeys(ctx, orderID)
}

// DownloadWithSignature serves a signed download URL. An empty itemID means
// the order-level bundle. The signature replaces the ownership check.
func (f *StoreFacade) DownloadWithSignature(ctx context.Context, orderID, itemID string, expires int64, sig, ipAddress, userAgent string) ([]model.RevealedKey, error) {
	if !f.links.Verify(orderID, itemID, expires, sig, time.Now()) {
		return nil, domainErrors.ErrForbidden
	}
	access := usecase.AccessInfo{
		Method:    model.AccessMethodSignedURL,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if itemID == "" {
		return f.delivery.RevealOrder(ctx, orderID, access)
	}
	revealed, err := f.delivery.RevealKey(ctx, orderID, itemID, access)
	if err != nil {
		return nil, err
	}
	return []model.RevealedKey{*revealed}, nil
}

// AuditTrail returns the key access history of an order.
func (f *StoreFacade) AuditTrail(ctx context.Context, orderID string) ([]model.DeliveryAudit, error) {
	return f.auditStore.ListByOrder(ctx, orderID)
}

// ValidatePromo runs the validation pipeline without side effects.
func (f *StoreFacade) ValidatePromo(ctx context.Context, code string, orderTotal float64, pctx usecase.PromoContext) (*usecase.ValidationResult, error) {
	return f.promos.ValidateCode(ctx, code, orderTotal, pctx)
}

// CreatePromo registers a new promo code.
func (f *StoreFacade) CreatePromo(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error) {
	if err := validatePromo(promo); err != nil {
		return nil, err
	}
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return f.promoStore.Create(ctx, promo)
}

// GetPromo returns one promo code by id.
func (f *StoreFacade) GetPromo(ctx context.Context, id string) (*model.PromoCode, error) {
	return f.promoStore.GetByID(ctx, id)
}

// ListPromos returns all live promo codes.
func (f *StoreFacade) ListPromos(ctx context.Context) ([]model.PromoCode, error) {
	return f.promoStore.List(ctx)
}

// UpdatePromo replaces a promo's attributes.
func (f *StoreFacade) UpdatePromo(ctx context.Context, promo *model.PromoCode) error {
	if err := validatePromo(promo); err != nil {
		return err
	}
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return f.promoStore.Update(ctx, promo)
}

// DeletePromo soft deletes a promo code.
func (f *StoreFacade) DeletePromo(ctx context.Context, id string) error {
	return f.promoStore.SoftDelete(ctx, id)
}

// VerifyWebhookSignature checks the gateway's HMAC over the raw body.
func (f *StoreFacade) VerifyWebhookSignature(body []byte, signature string) bool {
	if len(f.webhookKey) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, f.webhookKey)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandlePaymentEvent applies a gateway status update. When the status
// confirms payment it records the promo redemption, if any, and attempts
// fulfillment inline; a fulfillment failure is not fatal because the
// background worker retries the order.
func (f *StoreFacade) HandlePaymentEvent(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	order, err := f.orders.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusFulfilled || !order.Status.PaymentObserved() {
		return order, nil
	}

	if order.PromoCodeID != nil {
		_, err := f.promos.RecordRedemption(ctx, usecase.RedemptionInput{
			PromoCodeID:     *order.PromoCodeID,
			OrderID:         order.ID,
			UserID:          order.UserID,
			Email:           order.Email,
			DiscountApplied: order.PromoDiscount,
			OriginalTotal:   order.Total + order.PromoDiscount,
			FinalTotal:      order.Total,
		})
		if err != nil {
			f.logger.Error("promo redemption failed",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if fulfilled, err := f.fulfillment.FulfillOrder(ctx, order.ID); err != nil {
		f.logger.Warn("inline fulfillment failed, order left for worker",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	} else {
		order.Status = fulfilled.Status
	}
	return order, nil
}

// OrdersForFulfillment claims a batch of paid orders for the worker.
func (f *StoreFacade) OrdersForFulfillment(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orderStore.SelectBatchForFulfillment(ctx, limit)
}

// FulfillOrder drives one order to fulfilled on behalf of the worker.
func (f *StoreFacade) FulfillOrder(ctx context.Context, orderID string) (*usecase.FulfillmentStatus, error) {
	return f.fulfillment.FulfillOrder(ctx, orderID)
}

// HealthCheck pings the backing store.
func (f *StoreFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *StoreFacade) authorize(ctx context.Context, orderID string, caller usecase.CallerContext) (*model.Order, usecase.AccessDecision, error) {
	order, decision, err := f.resolver.ResolveAccessByID(ctx, orderID, caller)
	if err != nil {
		return nil, usecase.AccessDecision{}, err
	}
	if !decision.Granted {
		if caller.User == nil && caller.SessionToken == "" {
			return nil, decision, domainErrors.ErrUnauthorized
		}
		return nil, decision, domainErrors.ErrForbidden
	}
	return order, decision, nil
}

func validatePromo(promo *model.PromoCode) error {
	if strings.TrimSpace(promo.Code) == "" {
		return fmt.Errorf("promo code is required: %w", domainErrors.ErrInvalidAmount)
	}
	switch promo.DiscountType {
	case model.DiscountTypePercent:
		if promo.DiscountValue <= 0 || promo.DiscountValue > 100 {
			return fmt.Errorf("percent discount out of range: %w", domainErrors.ErrInvalidAmount)
		}
	case model.DiscountTypeFixed:
		if promo.DiscountValue <= 0 {
			return fmt.Errorf("fixed discount must be positive: %w", domainErrors.ErrInvalidAmount)
		}
	default:
		return fmt.Errorf("unknown discount type %q: %w", promo.DiscountType, domainErrors.ErrInvalidAmount)
	}
	switch promo.ScopeType {
	case model.ScopeTypeGlobal, model.ScopeTypeCategory, model.ScopeTypeProduct:
	default:
		return fmt.Errorf("unknown scope type %q: %w", promo.ScopeType, domainErrors.ErrInvalidAmount)
	}
	return nil
}
