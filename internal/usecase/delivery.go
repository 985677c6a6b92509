package usecase

import (
	"context"
	"log/slog"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
	"github.com/bitloot/bitloot/internal/pkg/keyseal"
	"github.com/bitloot/bitloot/internal/pkg/link"
)

// AccessInfo identifies the requester of a reveal for the audit trail.
type AccessInfo struct {
	Method    model.AccessMethod
	IPAddress string
	UserAgent string
}

// DeliveryLink is the order-level signed download link response.
type DeliveryLink struct {
	OrderID   string
	SignedURL string
	ExpiresAt time.Time
	ItemCount int
	Message   string
}

// KeyDeliveryService reveals purchased credentials and issues signed
// download links. Every reveal attempt is audit-logged, granted or not.
type KeyDeliveryService struct {
	orders    repository.OrderRepository
	audits    repository.AuditRepository
	sealer    keyseal.Sealer
	links     *link.Signer
	revealTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewKeyDeliveryService constructs KeyDeliveryService.
func NewKeyDeliveryService(orders repository.OrderRepository, audits repository.AuditRepository, sealer keyseal.Sealer, links *link.Signer, revealTTL time.Duration, logger *slog.Logger) *KeyDeliveryService {
	if revealTTL <= 0 {
		revealTTL = 15 * time.Minute
	}
	return &KeyDeliveryService{
		orders:    orders,
		audits:    audits,
		sealer:    sealer,
		links:     links,
		revealTTL: revealTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateDeliveryLink issues a fresh order-level signed URL and refreshes
// the per-item links. The order must be fulfilled, or payment-observed with
// all material already stored.
func (s *KeyDeliveryService) GenerateDeliveryLink(ctx context.Context, orderID string) (*DeliveryLink, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	withKeys := 0
	for _, item := range items {
		if item.HasKey() {
			withKeys++
		}
	}
	if withKeys == 0 {
		return nil, domainErrors.ErrNoKeyMaterial
	}
	if order.Status != model.OrderStatusFulfilled && !(order.Status.PaymentObserved() && withKeys == len(items)) {
		return nil, domainErrors.ErrInvalidState
	}

	now := s.now()
	for _, item := range items {
		if !item.HasKey() {
			continue
		}
		itemURL, itemExpires := s.links.Sign(order.ID, item.ID, now)
		if err := s.orders.SetItemLink(ctx, item.ID, itemURL, itemExpires); err != nil {
			return nil, err
		}
	}

	signedURL, expiresAt := s.links.Sign(order.ID, "", now)
	return &DeliveryLink{
		OrderID:   order.ID,
		SignedURL: signedURL,
		ExpiresAt: expiresAt,
		ItemCount: withKeys,
		Message:   "download link expires shortly, reveal keys promptly",
	}, nil
}

// RevealKey decrypts an item's credential in memory and returns it. The
// audit record is written whether or not the reveal succeeds.
func (s *KeyDeliveryService) RevealKey(ctx context.Context, orderID, itemID string, access AccessInfo) (revealed *model.RevealedKey, err error) {
	defer func() {
		entry := &model.DeliveryAudit{
			OrderID:   orderID,
			ItemID:    itemID,
			Method:    access.Method,
			Success:   err == nil,
			IPAddress: access.IPAddress,
			UserAgent: access.UserAgent,
		}
		if auditErr := s.audits.Record(ctx, entry); auditErr != nil {
			s.logger.Error("audit record failed",
				slog.String("order_id", orderID),
				slog.String("item_id", itemID),
				slog.String("error", auditErr.Error()),
			)
		}
	}()

	item, err := s.orders.GetItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.HasKey() {
		return nil, domainErrors.ErrNoKeyMaterial
	}

	plaintext, err := s.sealer.Open(item.EncryptedKey)
	if err != nil {
		return nil, err
	}

	count, err := s.orders.IncrementDownloadCount(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &model.RevealedKey{
		OrderID:       orderID,
		ItemID:        itemID,
		PlainKey:      string(plaintext),
		ContentType:   "text/plain",
		RevealedAt:    now,
		ExpiresAt:     now.Add(s.revealTTL),
		DownloadCount: count,
	}, nil
}

// RevealOrder reveals every delivered item of an order, used by the
// order-level signed bundle download.
func (s *KeyDeliveryService) RevealOrder(ctx context.Context, orderID string, access AccessInfo) ([]model.RevealedKey, error) {
	items, err := s.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var revealed []model.RevealedKey
	for _, item := range items {
		if !item.HasKey() {
			continue
		}
		key, err := s.RevealKey(ctx, orderID, item.ID, access)
		if err != nil {
			return nil, err
		}
		revealed = append(revealed, *key)
	}
	if len(revealed) == 0 {
		return nil, domainErrors.ErrNoKeyMaterial
	}
	return revealed, nil
}
