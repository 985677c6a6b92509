package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bitloot/bitloot/internal/config"
	"github.com/bitloot/bitloot/internal/domain/repository"
	"github.com/bitloot/bitloot/internal/pkg/keyseal"
	"github.com/bitloot/bitloot/internal/pkg/link"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewPromoEngine,
	NewOwnershipResolver,
	NewOrderUseCase,
	newKeyDeliveryService,
	NewFulfillmentOrchestrator,
)

type deliveryParams struct {
	fx.In

	Orders repository.OrderRepository
	Audits repository.AuditRepository
	Sealer keyseal.Sealer
	Links  *link.Signer
	Config *config.Config
	Logger *slog.Logger
}

func newKeyDeliveryService(p deliveryParams) *KeyDeliveryService {
	return NewKeyDeliveryService(p.Orders, p.Audits, p.Sealer, p.Links, p.Config.RevealTTL, p.Logger)
}
