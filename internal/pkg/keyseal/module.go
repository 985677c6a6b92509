package keyseal

import (
	"github.com/bitloot/bitloot/internal/config"
	"go.uber.org/fx"
)

// Module exposes the blob sealer to the fx graph.
var Module = fx.Provide(newSealer)

type sealerParams struct {
	fx.In

	Config *config.Config
}

func newSealer(p sealerParams) (Sealer, error) {
	return New(p.Config.EncryptionKey)
}
