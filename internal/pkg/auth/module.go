package auth

import (
	"github.com/bitloot/bitloot/internal/config"
	"go.uber.org/fx"
)

// Module provides token primitives via fx.
var Module = fx.Options(
	fx.Provide(newTokenStrategy),
	fx.Provide(newSessionStrategy),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.TokenSecret, Options{})
}

func newSessionStrategy(p strategyParams) SessionStrategy {
	return NewHMACSession(p.Config.SessionSecret, Options{TTL: p.Config.SessionTTL})
}
