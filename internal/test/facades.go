package test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/usecase"
)

// CheckoutFacadeStub provides controllable behaviour for order endpoints.
type CheckoutFacadeStub struct {
	CheckoutFn func(context.Context, usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	OrderFn    func(context.Context, string, usecase.CallerContext) (*model.Order, []model.OrderItem, error)
}

// Checkout delegates to the provided function or returns a default order.
func (s CheckoutFacadeStub) Checkout(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, input)
	}
	return &usecase.CheckoutResult{
		Order:        &model.Order{ID: "order-1", Email: input.Email, Status: model.OrderStatusCreated, Total: 10},
		SessionToken: "session:order-1",
	}, nil
}

// Order returns a predefined order for the given id.
func (s CheckoutFacadeStub) Order(ctx context.Context, orderID string, caller usecase.CallerContext) (*model.Order, []model.OrderItem, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, caller)
	}
	return &model.Order{ID: orderID, Email: "user@example.com", Status: model.OrderStatusPaid, Total: 10},
		[]model.OrderItem{{ID: "item-1", OrderID: orderID, ProductID: "prod-a", Quantity: 1, UnitPrice: 10}}, nil
}

// FulfillmentFacadeStub simulates fulfillment and key delivery operations.
type FulfillmentFacadeStub struct {
	StatusFn     func(context.Context, string, usecase.CallerContext) (*usecase.FulfillmentStatus, error)
	LinkFn       func(context.Context, string, usecase.CallerContext) (*usecase.DeliveryLink, error)
	RevealItemFn func(context.Context, string, string, usecase.CallerContext) (*model.RevealedKey, error)
	RevealAllFn  func(context.Context, string, usecase.CallerContext) ([]model.RevealedKey, error)
	RecoverFn    func(context.Context, string, usecase.CallerContext) (*usecase.RecoveryResult, error)
	DownloadFn   func(context.Context, string, string, int64, string, string, string) ([]model.RevealedKey, error)
	AuditFn      func(context.Context, string) ([]model.DeliveryAudit, error)
}

// FulfillmentStatus returns configured progress or a fulfilled default.
func (s FulfillmentFacadeStub) FulfillmentStatus(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.FulfillmentStatus, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID, caller)
	}
	return &usecase.FulfillmentStatus{OrderID: orderID, Status: model.OrderStatusFulfilled, ItemsFulfilled: 1, ItemsTotal: 1, AllFulfilled: true}, nil
}

// DeliveryLink returns a configured or default signed link.
func (s FulfillmentFacadeStub) DeliveryLink(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.DeliveryLink, error) {
	if s.LinkFn != nil {
		return s.LinkFn(ctx, orderID, caller)
	}
	return &usecase.DeliveryLink{OrderID: orderID, SignedURL: "https://example.com/dl", ExpiresAt: time.Unix(0, 0), ItemCount: 1}, nil
}

// RevealItemKey returns one decrypted credential.
func (s FulfillmentFacadeStub) RevealItemKey(ctx context.Context, orderID, itemID string, caller usecase.CallerContext) (*model.RevealedKey, error) {
	if s.RevealItemFn != nil {
		return s.RevealItemFn(ctx, orderID, itemID, caller)
	}
	return &model.RevealedKey{OrderID: orderID, ItemID: itemID, PlainKey: "AAAA-BBBB"}, nil
}

// RevealOrderKeys returns every credential of an order.
func (s FulfillmentFacadeStub) RevealOrderKeys(ctx context.Context, orderID string, caller usecase.CallerContext) ([]model.RevealedKey, error) {
	if s.RevealAllFn != nil {
		return s.RevealAllFn(ctx, orderID, caller)
	}
	return []model.RevealedKey{{OrderID: orderID, ItemID: "item-1", PlainKey: "AAAA-BBBB"}}, nil
}

// RecoverOrderKeys returns the configured recovery outcome.
func (s FulfillmentFacadeStub) RecoverOrderKeys(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.RecoveryResult, error) {
	if s.RecoverFn != nil {
		return s.RecoverFn(ctx, orderID, caller)
	}
	url := "https://example.com/dl"
	return &usecase.RecoveryResult{Recovered: true, Items: []usecase.RecoveredItem{{ItemID: "item-1", SignedURL: &url}}}, nil
}

// DownloadWithSignature serves a signed URL download.
func (s FulfillmentFacadeStub) DownloadWithSignature(ctx context.Context, orderID, itemID string, expires int64, sig, ipAddress, userAgent string) ([]model.RevealedKey, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, orderID, itemID, expires, sig, ipAddress, userAgent)
	}
	return []model.RevealedKey{{OrderID: orderID, ItemID: "item-1", PlainKey: "AAAA-BBBB"}}, nil
}

// AuditTrail returns the configured access history.
func (s FulfillmentFacadeStub) AuditTrail(ctx context.Context, orderID string) ([]model.DeliveryAudit, error) {
	if s.AuditFn != nil {
		return s.AuditFn(ctx, orderID)
	}
	return []model.DeliveryAudit{{OrderID: orderID, ItemID: "item-1", Method: model.AccessMethodAdmin, Success: true}}, nil
}

// PromoFacadeStub simulates promo validation and administration.
type PromoFacadeStub struct {
	ValidateFn func(context.Context, string, float64, usecase.PromoContext) (*usecase.ValidationResult, error)
	CreateFn   func(context.Context, *model.PromoCode) (*model.PromoCode, error)
	GetFn      func(context.Context, string) (*model.PromoCode, error)
	ListFn     func(context.Context) ([]model.PromoCode, error)
	UpdateFn   func(context.Context, *model.PromoCode) error
	DeleteFn   func(context.Context, string) error
}

// ValidatePromo returns the configured validation outcome.
func (s PromoFacadeStub) ValidatePromo(ctx context.Context, code string, orderTotal float64, pctx usecase.PromoContext) (*usecase.ValidationResult, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, code, orderTotal, pctx)
	}
	return &usecase.ValidationResult{
		Valid:          true,
		PromoCodeID:    "promo-1",
		Code:           "SAVE10",
		DiscountType:   model.DiscountTypeFixed,
		DiscountAmount: "5.00000000",
		FinalTotal:     fmt.Sprintf("%.8f", orderTotal-5),
	}, nil
}

// CreatePromo echoes the promo back with an id.
func (s PromoFacadeStub) CreatePromo(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, promo)
	}
	created := *promo
	if created.ID == "" {
		created.ID = "promo-1"
	}
	return &created, nil
}

// GetPromo returns a configured or default promo.
func (s PromoFacadeStub) GetPromo(ctx context.Context, id string) (*model.PromoCode, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.PromoCode{ID: id, Code: "SAVE10", DiscountType: model.DiscountTypePercent, DiscountValue: 10, ScopeType: model.ScopeTypeGlobal, IsActive: true}, nil
}

// ListPromos returns the configured promo list.
func (s PromoFacadeStub) ListPromos(ctx context.Context) ([]model.PromoCode, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.PromoCode{{ID: "promo-1", Code: "SAVE10"}}, nil
}

// UpdatePromo executes the configured update handler.
func (s PromoFacadeStub) UpdatePromo(ctx context.Context, promo *model.PromoCode) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, promo)
	}
	return nil
}

// DeletePromo executes the configured delete handler.
func (s PromoFacadeStub) DeletePromo(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// WebhookFacadeStub simulates payment gateway callbacks.
type WebhookFacadeStub struct {
	VerifyFn func([]byte, string) bool
	HandleFn func(context.Context, string, model.OrderStatus) (*model.Order, error)
}

// VerifyWebhookSignature accepts everything unless overridden.
func (s WebhookFacadeStub) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.VerifyFn != nil {
		return s.VerifyFn(body, signature)
	}
	return true
}

// HandlePaymentEvent applies the status and returns the updated order.
func (s WebhookFacadeStub) HandlePaymentEvent(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if s.HandleFn != nil {
		return s.HandleFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// HealthFacadeStub reports configurable store health.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(ctx context.Context) error {
	return s.Err
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	CheckoutFacadeStub
	FulfillmentFacadeStub
	PromoFacadeStub
	WebhookFacadeStub
	HealthFacadeStub
	TokenParserStub
}

// FulfillCall stores information about worker FulfillOrder invocations.
type FulfillCall struct {
	OrderID string
}

// WorkerFacadeStub mimics worker interactions with the store facade.
type WorkerFacadeStub struct {
	Orders          [][]model.Order
	OrdersFn        func(context.Context, int) ([]model.Order, error)
	FulfillFn       func(context.Context, string) (*usecase.FulfillmentStatus, error)
	Fulfillments    []FulfillCall
	mu              sync.Mutex
	ordersCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersForFulfillment returns batches from the configured queue.
func (s *WorkerFacadeStub) OrdersForFulfillment(ctx context.Context, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.ordersCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// FulfillOrder records fulfillment requests.
func (s *WorkerFacadeStub) FulfillOrder(ctx context.Context, orderID string) (*usecase.FulfillmentStatus, error) {
	if s.FulfillFn != nil {
		return s.FulfillFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fulfillments = append(s.Fulfillments, FulfillCall{OrderID: orderID})
	return &usecase.FulfillmentStatus{OrderID: orderID, Status: model.OrderStatusFulfilled, ItemsFulfilled: 1, ItemsTotal: 1, AllFulfilled: true}, nil
}
