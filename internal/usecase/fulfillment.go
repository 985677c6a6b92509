package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
	"github.com/bitloot/bitloot/internal/pkg/keyseal"
	"github.com/bitloot/bitloot/internal/pkg/link"
)

// KeySource acquires credentials for a product from the supplier or the
// internal stock pool.
type KeySource interface {
	Acquire(ctx context.Context, productID string, quantity int) ([]string, error)
}

// FulfillmentStatus is the read model for an order's fulfillment progress.
type FulfillmentStatus struct {
	OrderID        string
	Status         model.OrderStatus
	ItemsFulfilled int
	ItemsTotal     int
	AllFulfilled   bool
	UpdatedAt      time.Time
}

// RecoveredItem reports post-recovery link state for one item.
type RecoveredItem struct {
	ItemID    string
	SignedURL *string
}

// RecoveryResult is the outcome of re-deriving signed URLs.
type RecoveryResult struct {
	Recovered bool
	Items     []RecoveredItem
}

// FulfillmentOrchestrator drives an order from paid to fulfilled: acquires
// keys, seals them, issues links and flips the status. Re-running it on any
// order is safe; it never acquires a second key for an item that already
// has stored ciphertext.
type FulfillmentOrchestrator struct {
	orders   repository.OrderRepository
	supplier KeySource
	sealer   keyseal.Sealer
	links    *link.Signer
	logger   *slog.Logger
	now      func() time.Time
}

// NewFulfillmentOrchestrator constructs FulfillmentOrchestrator.
func NewFulfillmentOrchestrator(orders repository.OrderRepository, supplier KeySource, sealer keyseal.Sealer, links *link.Signer, logger *slog.Logger) *FulfillmentOrchestrator {
	return &FulfillmentOrchestrator{
		orders:   orders,
		supplier: supplier,
		sealer:   sealer,
		links:    links,
		logger:   logger,
		now:      time.Now,
	}
}

// FulfillOrder acquires and stores key material for every item missing it,
// then marks the order fulfilled. Already-fulfilled orders return success
// immediately.
func (o *FulfillmentOrchestrator) FulfillOrder(ctx context.Context, orderID string) (*FulfillmentStatus, error) {
	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == model.OrderStatusFulfilled {
		return o.status(ctx, order)
	}
	if !order.Status.PaymentObserved() {
		return nil, domainErrors.ErrInvalidState
	}

	items, err := o.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.HasKey() {
			continue
		}
		if err := o.fulfillItem(ctx, order, item); err != nil {
			// Order stays in its payment state so a later retry resumes
			// from the items still missing material.
			o.logger.Error("item fulfillment failed",
				slog.String("order_id", order.ID),
				slog.String("item_id", item.ID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
	}

	if err := o.issueLinks(ctx, orderID); err != nil {
		return nil, err
	}

	if err := o.orders.UpdateStatus(ctx, orderID, model.OrderStatusFulfilled); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusFulfilled
	o.logger.Info("order fulfilled", slog.String("order_id", order.ID))

	return o.status(ctx, order)
}

// CheckStatus is a pure read of fulfillment progress.
func (o *FulfillmentOrchestrator) CheckStatus(ctx context.Context, orderID string) (*FulfillmentStatus, error) {
	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.status(ctx, order)
}

// RecoverOrderKeys re-derives signed URLs from stored ciphertext without
// acquiring new keys, and marks the order fulfilled when every item has
// material. Safe to call repeatedly.
func (o *FulfillmentOrchestrator) RecoverOrderKeys(ctx context.Context, orderID string) (*RecoveryResult, error) {
	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusFulfilled && !order.Status.PaymentObserved() {
		return nil, domainErrors.ErrInvalidState
	}

	items, err := o.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &RecoveryResult{Recovered: true}
	allKeyed := true
	now := o.now()
	for _, item := range items {
		if !item.HasKey() {
			allKeyed = false
			result.Recovered = false
			result.Items = append(result.Items, RecoveredItem{ItemID: item.ID})
			continue
		}
		if item.SignedURL == nil {
			signedURL, expiresAt := o.links.Sign(order.ID, item.ID, now)
			if err := o.orders.SetItemLink(ctx, item.ID, signedURL, expiresAt); err != nil {
				return nil, err
			}
			item.SignedURL = &signedURL
		}
		result.Items = append(result.Items, RecoveredItem{ItemID: item.ID, SignedURL: item.SignedURL})
	}

	if allKeyed && order.Status != model.OrderStatusFulfilled {
		if err := o.orders.UpdateStatus(ctx, orderID, model.OrderStatusFulfilled); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (o *FulfillmentOrchestrator) fulfillItem(ctx context.Context, order *model.Order, item model.OrderItem) error {
	keys, err := o.supplier.Acquire(ctx, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("acquire keys for %s: %w", item.ProductID, err)
	}
	if len(keys) < item.Quantity {
		return fmt.Errorf("acquire keys for %s: %w", item.ProductID, domainErrors.ErrOutOfStock)
	}

	ciphertext, err := o.sealer.Seal([]byte(strings.Join(keys, "\n")))
	if err != nil {
		return fmt.Errorf("seal keys: %w", err)
	}

	stored, err := o.orders.StoreItemKey(ctx, item.ID, ciphertext)
	if err != nil {
		return err
	}
	if !stored {
		// A concurrent run already stored material for this item; the
		// acquired keys are surplus and must not overwrite it.
		o.logger.Warn("item already keyed by concurrent fulfillment",
			slog.String("order_id", order.ID),
			slog.String("item_id", item.ID),
		)
	}
	return nil
}

func (o *FulfillmentOrchestrator) issueLinks(ctx context.Context, orderID string) error {
	items, err := o.orders.ListItems(ctx, orderID)
	if err != nil {
		return err
	}
	now := o.now()
	for _, item := range items {
		if !item.HasKey() {
			return domainErrors.ErrNoKeyMaterial
		}
		if item.SignedURL != nil {
			continue
		}
		signedURL, expiresAt := o.links.Sign(orderID, item.ID, now)
		if err := o.orders.SetItemLink(ctx, item.ID, signedURL, expiresAt); err != nil {
			return err
		}
	}
	return nil
}

func (o *FulfillmentOrchestrator) status(ctx context.Context, order *model.Order) (*FulfillmentStatus, error) {
	items, err := o.orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	fulfilled := 0
	for _, item := range items {
		if item.HasKey() {
			fulfilled++
		}
	}

	return &FulfillmentStatus{
		OrderID:        order.ID,
		Status:         order.Status,
		ItemsFulfilled: fulfilled,
		ItemsTotal:     len(items),
		AllFulfilled:   len(items) > 0 && fulfilled == len(items),
		UpdatedAt:      order.UpdatedAt,
	}, nil
}
