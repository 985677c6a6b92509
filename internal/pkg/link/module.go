package link

import (
	"github.com/bitloot/bitloot/internal/config"
	"go.uber.org/fx"
)

// Module exposes the download link signer to the fx graph.
var Module = fx.Provide(newSigner)

type signerParams struct {
	fx.In

	Config *config.Config
}

func newSigner(p signerParams) *Signer {
	return NewSigner(p.Config.PublicBaseURL, p.Config.LinkSecret, p.Config.LinkTTL)
}
