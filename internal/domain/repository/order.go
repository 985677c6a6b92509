package repository

import (
	"context"
	"time"

	"github.com/bitloot/bitloot/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and items.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	GetItem(ctx context.Context, orderID, itemID string) (*model.OrderItem, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	// StoreItemKey writes ciphertext only when the item has none yet and
	// reports whether the write landed. A false result means another
	// writer already stored material for the item.
	StoreItemKey(ctx context.Context, itemID string, ciphertext []byte) (bool, error)

	SetItemLink(ctx context.Context, itemID, signedURL string, expiresAt time.Time) error
	IncrementDownloadCount(ctx context.Context, itemID string) (int, error)

	// SelectBatchForFulfillment claims payment-observed, unfulfilled orders
	// for background processing, flipping them to the sending status so
	// concurrent workers never pick the same order twice.
	SelectBatchForFulfillment(ctx context.Context, limit int) ([]model.Order, error)
}
