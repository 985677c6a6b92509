package repository

import (
	"context"

	"github.com/bitloot/bitloot/internal/domain/model"
)

// AuditRepository records key access attempts. Records are append-only.
type AuditRepository interface {
	Record(ctx context.Context, entry *model.DeliveryAudit) error
	ListByOrder(ctx context.Context, orderID string) ([]model.DeliveryAudit, error)
}
