package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
)

// CheckoutItem is one position of a checkout request.
type CheckoutItem struct {
	ProductID  string
	CategoryID string
	Quantity   int
	UnitPrice  float64
}

// CheckoutInput describes a new order.
type CheckoutInput struct {
	Email     string
	UserID    *string
	Items     []CheckoutItem
	PromoCode string
}

// CheckoutResult carries the created order, its session token and the
// applied promo outcome, if any.
type CheckoutResult struct {
	Order        *model.Order
	Items        []model.OrderItem
	SessionToken string
	Promo        *ValidationResult
}

// OrderUseCase creates orders and issues their session tokens.
type OrderUseCase struct {
	orders   repository.OrderRepository
	promos   *PromoEngine
	sessions pkgAuth.SessionStrategy
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, promos *PromoEngine, sessions pkgAuth.SessionStrategy) *OrderUseCase {
	return &OrderUseCase{orders: orders, promos: promos, sessions: sessions}
}

// Checkout creates an order in the created status. When a promo code is
// supplied it must validate; the discounted total is persisted and the
// promo reference kept for redemption at payment time.
func (u *OrderUseCase) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || len(input.Items) == 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	var total float64
	items := make([]model.OrderItem, 0, len(input.Items))
	productIDs := make([]string, 0, len(input.Items))
	categoryIDs := make([]string, 0, len(input.Items))
	orderID := uuid.NewString()
	for _, in := range input.Items {
		if in.ProductID == "" || in.Quantity <= 0 || in.UnitPrice < 0 {
			return nil, domainErrors.ErrInvalidAmount
		}
		items = append(items, model.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			ProductID:  in.ProductID,
			CategoryID: in.CategoryID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
		})
		productIDs = append(productIDs, in.ProductID)
		if in.CategoryID != "" {
			categoryIDs = append(categoryIDs, in.CategoryID)
		}
		total += in.UnitPrice * float64(in.Quantity)
	}

	order := &model.Order{
		ID:     orderID,
		Email:  email,
		UserID: input.UserID,
		Status: model.OrderStatusCreated,
		Total:  total,
	}

	var promoResult *ValidationResult
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		result, err := u.promos.ValidateCode(ctx, code, total, PromoContext{
			UserID:      input.UserID,
			Email:       email,
			ProductIDs:  productIDs,
			CategoryIDs: categoryIDs,
		})
		if err != nil {
			return nil, err
		}
		promoResult = result
		if result.Valid {
			discount := total - parseAmount(result.FinalTotal)
			order.PromoCodeID = &result.PromoCodeID
			order.PromoDiscount = discount
			order.Total = total - discount
		}
	}

	created, err := u.orders.Create(ctx, order, items)
	if err != nil {
		return nil, err
	}

	token, err := u.sessions.IssueOrderToken(created.ID, created.Email)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: created, Items: items, SessionToken: token, Promo: promoResult}, nil
}

// Get returns an order with its items.
func (u *OrderUseCase) Get(ctx context.Context, orderID string) (*model.Order, []model.OrderItem, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	items, err := u.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// UpdatePaymentStatus persists a payment status transition reported by the
// gateway. Fulfilled orders are terminal and never regress.
func (u *OrderUseCase) UpdatePaymentStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusFulfilled {
		return order, nil
	}
	if err := u.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
