package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
)

func newOrderUseCase(t *testing.T, promos ...*model.PromoCode) (*OrderUseCase, *stubOrderRepository, pkgAuth.SessionStrategy) {
	t.Helper()
	orders := newStubOrderRepository()
	engine, _ := newEngineAt(t, time.Now(), promos...)
	sessions := pkgAuth.NewHMACSession("session-secret", pkgAuth.Options{TTL: time.Hour})
	return NewOrderUseCase(orders, engine, sessions), orders, sessions
}

func TestCheckoutTotalsAndSessionToken(t *testing.T) {
	uc, orders, sessions := newOrderUseCase(t)

	result, err := uc.Checkout(context.Background(), CheckoutInput{
		Email: "Buyer@Example.com",
		Items: []CheckoutItem{
			{ProductID: "prod-a", CategoryID: "games", Quantity: 2, UnitPrice: 10},
			{ProductID: "prod-b", CategoryID: "software", Quantity: 1, UnitPrice: 5.5},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.Total != 25.5 {
		t.Fatalf("expected total 25.5, got %v", result.Order.Total)
	}
	if result.Order.Status != model.OrderStatusCreated {
		t.Fatalf("expected created status, got %s", result.Order.Status)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if item.ID == "" || item.OrderID != result.Order.ID {
			t.Fatalf("item not bound to order: %+v", item)
		}
	}

	claims, err := sessions.ParseOrderToken(result.SessionToken)
	if err != nil {
		t.Fatalf("session token does not parse: %v", err)
	}
	if claims.OrderID != result.Order.ID || claims.Email != "Buyer@Example.com" {
		t.Fatalf("unexpected session claims: %+v", claims)
	}

	if _, err := orders.GetByID(context.Background(), result.Order.ID); err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
}

func TestCheckoutAppliesValidPromo(t *testing.T) {
	uc, _, _ := newOrderUseCase(t, activePromo())

	result, err := uc.Checkout(context.Background(), CheckoutInput{
		Email:     "a@x.com",
		PromoCode: "SAVE10",
		Items: []CheckoutItem{
			{ProductID: "prod-a", CategoryID: "games", Quantity: 1, UnitPrice: 100},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Promo == nil || !result.Promo.Valid {
		t.Fatalf("expected valid promo result, got %+v", result.Promo)
	}
	if result.Order.PromoCodeID == nil || *result.Order.PromoCodeID != "promo-1" {
		t.Fatal("expected promo reference persisted on order")
	}
	if result.Order.PromoDiscount != 10 {
		t.Fatalf("expected discount 10, got %v", result.Order.PromoDiscount)
	}
	if result.Order.Total != 90 {
		t.Fatalf("expected discounted total 90, got %v", result.Order.Total)
	}
}

func TestCheckoutKeepsTotalOnInvalidPromo(t *testing.T) {
	uc, _, _ := newOrderUseCase(t)

	result, err := uc.Checkout(context.Background(), CheckoutInput{
		Email:     "a@x.com",
		PromoCode: "NOPE",
		Items: []CheckoutItem{
			{ProductID: "prod-a", Quantity: 1, UnitPrice: 100},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Promo == nil || result.Promo.Valid {
		t.Fatalf("expected invalid promo result, got %+v", result.Promo)
	}
	if result.Promo.ErrorCode != ErrCodePromoNotFound {
		t.Fatalf("expected %s, got %s", ErrCodePromoNotFound, result.Promo.ErrorCode)
	}
	if result.Order.Total != 100 || result.Order.PromoCodeID != nil {
		t.Fatal("invalid promo must not change the order")
	}
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	uc, _, _ := newOrderUseCase(t)

	cases := []CheckoutInput{
		{Email: "", Items: []CheckoutItem{{ProductID: "p", Quantity: 1, UnitPrice: 1}}},
		{Email: "a@x.com"},
		{Email: "a@x.com", Items: []CheckoutItem{{ProductID: "", Quantity: 1, UnitPrice: 1}}},
		{Email: "a@x.com", Items: []CheckoutItem{{ProductID: "p", Quantity: 0, UnitPrice: 1}}},
		{Email: "a@x.com", Items: []CheckoutItem{{ProductID: "p", Quantity: 1, UnitPrice: -1}}},
	}
	for i, input := range cases {
		if _, err := uc.Checkout(context.Background(), input); !errors.Is(err, domainErrors.ErrInvalidAmount) {
			t.Fatalf("case %d: expected ErrInvalidAmount, got %v", i, err)
		}
	}
}

func TestUpdatePaymentStatusTransition(t *testing.T) {
	uc, orders, _ := newOrderUseCase(t)
	orders.addOrder(&model.Order{ID: "order-1", Email: "a@x.com", Status: model.OrderStatusWaiting})

	order, err := uc.UpdatePaymentStatus(context.Background(), "order-1", model.OrderStatusPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", order.Status)
	}
}

func TestUpdatePaymentStatusFulfilledIsTerminal(t *testing.T) {
	uc, orders, _ := newOrderUseCase(t)
	orders.addOrder(&model.Order{ID: "order-1", Email: "a@x.com", Status: model.OrderStatusFulfilled})

	order, err := uc.UpdatePaymentStatus(context.Background(), "order-1", model.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusFulfilled {
		t.Fatalf("fulfilled order regressed to %s", order.Status)
	}
	if len(orders.statusUpdates) != 0 {
		t.Fatal("expected no status write for terminal order")
	}
}

func TestGetReturnsOrderWithItems(t *testing.T) {
	uc, orders, _ := newOrderUseCase(t)
	orders.addOrder(
		&model.Order{ID: "order-1", Email: "a@x.com", Status: model.OrderStatusCreated},
		&model.OrderItem{ID: "item-a", OrderID: "order-1", ProductID: "p", Quantity: 1},
	)

	order, items, err := uc.Get(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "order-1" || len(items) != 1 {
		t.Fatalf("unexpected result: order=%+v items=%d", order, len(items))
	}

	if _, _, err := uc.Get(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
