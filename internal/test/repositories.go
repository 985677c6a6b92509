package test

import (
	"context"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
)

// OrderRepositoryStub allows tests to customize order persistence behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order, []model.OrderItem) (*model.Order, error)
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	ListItemsFn    func(context.Context, string) ([]model.OrderItem, error)
	GetItemFn      func(context.Context, string, string) (*model.OrderItem, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) error
	StoreItemKeyFn func(context.Context, string, []byte) (bool, error)
	SetItemLinkFn  func(context.Context, string, string, time.Time) error
	IncrementFn    func(context.Context, string) (int, error)
	SelectBatchFn  func(context.Context, int) ([]model.Order, error)
	StatusUpdates  []model.OrderStatus
	StoredKeys     map[string][]byte
}

// Create echoes the order back or delegates to the override.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, items)
	}
	return order, nil
}

// GetByID returns a configured order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// ListItems returns configured items or an empty slice.
func (s *OrderRepositoryStub) ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	if s.ListItemsFn != nil {
		return s.ListItemsFn(ctx, orderID)
	}
	return nil, nil
}

// GetItem returns a configured item or not found.
func (s *OrderRepositoryStub) GetItem(ctx context.Context, orderID, itemID string) (*model.OrderItem, error) {
	if s.GetItemFn != nil {
		return s.GetItemFn(ctx, orderID, itemID)
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateStatus records the transition.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	s.StatusUpdates = append(s.StatusUpdates, status)
	return nil
}

// StoreItemKey claims the key slot unless already claimed.
func (s *OrderRepositoryStub) StoreItemKey(ctx context.Context, itemID string, ciphertext []byte) (bool, error) {
	if s.StoreItemKeyFn != nil {
		return s.StoreItemKeyFn(ctx, itemID, ciphertext)
	}
	if s.StoredKeys == nil {
		s.StoredKeys = make(map[string][]byte)
	}
	if _, taken := s.StoredKeys[itemID]; taken {
		return false, nil
	}
	s.StoredKeys[itemID] = ciphertext
	return true, nil
}

// SetItemLink executes the configured handler.
func (s *OrderRepositoryStub) SetItemLink(ctx context.Context, itemID, signedURL string, expiresAt time.Time) error {
	if s.SetItemLinkFn != nil {
		return s.SetItemLinkFn(ctx, itemID, signedURL, expiresAt)
	}
	return nil
}

// IncrementDownloadCount bumps and returns the counter.
func (s *OrderRepositoryStub) IncrementDownloadCount(ctx context.Context, itemID string) (int, error) {
	if s.IncrementFn != nil {
		return s.IncrementFn(ctx, itemID)
	}
	return 1, nil
}

// SelectBatchForFulfillment returns the configured batch.
func (s *OrderRepositoryStub) SelectBatchForFulfillment(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectBatchFn != nil {
		return s.SelectBatchFn(ctx, limit)
	}
	return nil, nil
}

// PromoRepositoryStub allows tests to customize promo persistence behaviour.
type PromoRepositoryStub struct {
	CreateFn           func(context.Context, *model.PromoCode) (*model.PromoCode, error)
	GetByIDFn          func(context.Context, string) (*model.PromoCode, error)
	GetByCodeFn        func(context.Context, string) (*model.PromoCode, error)
	ListFn             func(context.Context) ([]model.PromoCode, error)
	UpdateFn           func(context.Context, *model.PromoCode) error
	SoftDeleteFn       func(context.Context, string) error
	CountFn            func(context.Context, string, *string, string) (int, error)
	CreateRedemptionFn func(context.Context, *model.PromoRedemption) (*model.PromoRedemption, bool, error)
	GetRedemptionFn    func(context.Context, string, string) (*model.PromoRedemption, error)
	Created            []*model.PromoCode
	Redemptions        []*model.PromoRedemption
}

// Create records the promo and returns it.
func (s *PromoRepositoryStub) Create(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, promo)
	}
	s.Created = append(s.Created, promo)
	return promo, nil
}

// GetByID returns a configured promo or not found.
func (s *PromoRepositoryStub) GetByID(ctx context.Context, id string) (*model.PromoCode, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// GetByCode returns a configured promo or not found.
func (s *PromoRepositoryStub) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	if s.GetByCodeFn != nil {
		return s.GetByCodeFn(ctx, code)
	}
	return nil, domainErrors.ErrNotFound
}

// List returns the configured promo list.
func (s *PromoRepositoryStub) List(ctx context.Context) ([]model.PromoCode, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

// Update executes the configured handler.
func (s *PromoRepositoryStub) Update(ctx context.Context, promo *model.PromoCode) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, promo)
	}
	return nil
}

// SoftDelete executes the configured handler.
func (s *PromoRepositoryStub) SoftDelete(ctx context.Context, id string) error {
	if s.SoftDeleteFn != nil {
		return s.SoftDeleteFn(ctx, id)
	}
	return nil
}

// CountRedemptions returns the configured per-identity count.
func (s *PromoRepositoryStub) CountRedemptions(ctx context.Context, promoCodeID string, userID *string, email string) (int, error) {
	if s.CountFn != nil {
		return s.CountFn(ctx, promoCodeID, userID, email)
	}
	return 0, nil
}

// CreateRedemption records the redemption as newly created.
func (s *PromoRepositoryStub) CreateRedemption(ctx context.Context, redemption *model.PromoRedemption) (*model.PromoRedemption, bool, error) {
	if s.CreateRedemptionFn != nil {
		return s.CreateRedemptionFn(ctx, redemption)
	}
	s.Redemptions = append(s.Redemptions, redemption)
	return redemption, true, nil
}

// GetRedemption returns a configured redemption or not found.
func (s *PromoRepositoryStub) GetRedemption(ctx context.Context, promoCodeID, orderID string) (*model.PromoRedemption, error) {
	if s.GetRedemptionFn != nil {
		return s.GetRedemptionFn(ctx, promoCodeID, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

// AuditRepositoryStub records audit rows in memory.
type AuditRepositoryStub struct {
	RecordFn func(context.Context, *model.DeliveryAudit) error
	ListFn   func(context.Context, string) ([]model.DeliveryAudit, error)
	Entries  []model.DeliveryAudit
}

// Record stores the entry for later inspection.
func (s *AuditRepositoryStub) Record(ctx context.Context, entry *model.DeliveryAudit) error {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, entry)
	}
	s.Entries = append(s.Entries, *entry)
	return nil
}

// ListByOrder returns recorded entries for the order.
func (s *AuditRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.DeliveryAudit, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, orderID)
	}
	var out []model.DeliveryAudit
	for _, e := range s.Entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}
