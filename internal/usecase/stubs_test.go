package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// stubOrderRepository is an in-memory OrderRepository used across tests.
type stubOrderRepository struct {
	orders map[string]*model.Order
	items  map[string][]*model.OrderItem

	storeKeyCalls  int
	setLinkCalls   int
	statusUpdates  []model.OrderStatus
	failStoreKey   error
	failGetByID    error
	batch          []model.Order
	incrementCalls int
}

func newStubOrderRepository() *stubOrderRepository {
	return &stubOrderRepository{
		orders: make(map[string]*model.Order),
		items:  make(map[string][]*model.OrderItem),
	}
}

func (s *stubOrderRepository) addOrder(order *model.Order, items ...*model.OrderItem) {
	s.orders[order.ID] = order
	s.items[order.ID] = items
}

func (s *stubOrderRepository) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	copies := make([]*model.OrderItem, 0, len(items))
	for i := range items {
		item := items[i]
		copies = append(copies, &item)
	}
	s.addOrder(order, copies...)
	return order, nil
}

func (s *stubOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.failGetByID != nil {
		return nil, s.failGetByID
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

func (s *stubOrderRepository) ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(s.items[orderID]))
	for _, item := range s.items[orderID] {
		items = append(items, *item)
	}
	return items, nil
}

func (s *stubOrderRepository) GetItem(ctx context.Context, orderID, itemID string) (*model.OrderItem, error) {
	for _, item := range s.items[orderID] {
		if item.ID == itemID {
			copy := *item
			return &copy, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *stubOrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.Status = status
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *stubOrderRepository) StoreItemKey(ctx context.Context, itemID string, ciphertext []byte) (bool, error) {
	s.storeKeyCalls++
	if s.failStoreKey != nil {
		return false, s.failStoreKey
	}
	for _, items := range s.items {
		for _, item := range items {
			if item.ID == itemID {
				if item.HasKey() {
					return false, nil
				}
				item.EncryptedKey = ciphertext
				return true, nil
			}
		}
	}
	return false, domainErrors.ErrNotFound
}

func (s *stubOrderRepository) SetItemLink(ctx context.Context, itemID, signedURL string, expiresAt time.Time) error {
	s.setLinkCalls++
	for _, items := range s.items {
		for _, item := range items {
			if item.ID == itemID {
				item.SignedURL = &signedURL
				item.LinkExpiresAt = &expiresAt
				return nil
			}
		}
	}
	return domainErrors.ErrNotFound
}

func (s *stubOrderRepository) IncrementDownloadCount(ctx context.Context, itemID string) (int, error) {
	s.incrementCalls++
	for _, items := range s.items {
		for _, item := range items {
			if item.ID == itemID {
				item.DownloadCount++
				return item.DownloadCount, nil
			}
		}
	}
	return 0, domainErrors.ErrNotFound
}

func (s *stubOrderRepository) SelectBatchForFulfillment(ctx context.Context, limit int) ([]model.Order, error) {
	if len(s.batch) > limit {
		return s.batch[:limit], nil
	}
	return s.batch, nil
}

// stubPromoRepository is an in-memory PromoRepository.
type stubPromoRepository struct {
	promos      map[string]*model.PromoCode
	redemptions map[string]*model.PromoRedemption
	userCounts  map[string]int

	createRedemptionCalls int
}

func newStubPromoRepository(promos ...*model.PromoCode) *stubPromoRepository {
	s := &stubPromoRepository{
		promos:      make(map[string]*model.PromoCode),
		redemptions: make(map[string]*model.PromoRedemption),
		userCounts:  make(map[string]int),
	}
	for _, p := range promos {
		s.promos[p.ID] = p
	}
	return s
}

func (s *stubPromoRepository) Create(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error) {
	s.promos[promo.ID] = promo
	return promo, nil
}

func (s *stubPromoRepository) GetByID(ctx context.Context, id string) (*model.PromoCode, error) {
	promo, ok := s.promos[id]
	if !ok || promo.DeletedAt != nil {
		return nil, domainErrors.ErrNotFound
	}
	return promo, nil
}

func (s *stubPromoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	for _, promo := range s.promos {
		if promo.DeletedAt == nil && strings.EqualFold(promo.Code, code) {
			return promo, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *stubPromoRepository) List(ctx context.Context) ([]model.PromoCode, error) {
	var result []model.PromoCode
	for _, promo := range s.promos {
		if promo.DeletedAt == nil {
			result = append(result, *promo)
		}
	}
	return result, nil
}

func (s *stubPromoRepository) Update(ctx context.Context, promo *model.PromoCode) error {
	s.promos[promo.ID] = promo
	return nil
}

func (s *stubPromoRepository) SoftDelete(ctx context.Context, id string) error {
	promo, ok := s.promos[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	now := time.Now()
	promo.DeletedAt = &now
	return nil
}

func (s *stubPromoRepository) CountRedemptions(ctx context.Context, promoCodeID string, userID *string, email string) (int, error) {
	key := promoCodeID + "|" + email
	if userID != nil {
		key = promoCodeID + "|" + *userID
	}
	return s.userCounts[key], nil
}

func (s *stubPromoRepository) CreateRedemption(ctx context.Context, redemption *model.PromoRedemption) (*model.PromoRedemption, bool, error) {
	s.createRedemptionCalls++
	key := redemption.PromoCodeID + "|" + redemption.OrderID
	if existing, ok := s.redemptions[key]; ok {
		return existing, false, nil
	}
	stored := *redemption
	stored.ID = key
	stored.CreatedAt = time.Now()
	s.redemptions[key] = &stored
	if promo, ok := s.promos[redemption.PromoCodeID]; ok {
		promo.UsageCount++
	}
	return &stored, true, nil
}

func (s *stubPromoRepository) GetRedemption(ctx context.Context, promoCodeID, orderID string) (*model.PromoRedemption, error) {
	if r, ok := s.redemptions[promoCodeID+"|"+orderID]; ok {
		return r, nil
	}
	return nil, domainErrors.ErrNotFound
}

// stubAuditRepository records audit entries in memory.
type stubAuditRepository struct {
	entries []model.DeliveryAudit
	fail    error
}

func (s *stubAuditRepository) Record(ctx context.Context, entry *model.DeliveryAudit) error {
	if s.fail != nil {
		return s.fail
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubAuditRepository) ListByOrder(ctx context.Context, orderID string) ([]model.DeliveryAudit, error) {
	var result []model.DeliveryAudit
	for _, e := range s.entries {
		if e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

// stubKeySource serves scripted keys per product.
type stubKeySource struct {
	keys     map[string][]string
	err      error
	acquired int
}

func (s *stubKeySource) Acquire(ctx context.Context, productID string, quantity int) ([]string, error) {
	s.acquired++
	if s.err != nil {
		return nil, s.err
	}
	keys := s.keys[productID]
	if len(keys) < quantity {
		return nil, domainErrors.ErrOutOfStock
	}
	return keys[:quantity], nil
}
