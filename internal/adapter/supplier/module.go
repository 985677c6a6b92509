package supplier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bitloot/bitloot/internal/config"
)

// Module exposes supplier client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.SupplierAddress, p.Logger)
}
