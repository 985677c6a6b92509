package di

import (
	"go.uber.org/fx"

	"github.com/bitloot/bitloot/internal/adapter/supplier"
	"github.com/bitloot/bitloot/internal/app"
	"github.com/bitloot/bitloot/internal/config"
	"github.com/bitloot/bitloot/internal/logger"
	"github.com/bitloot/bitloot/internal/pkg/auth"
	"github.com/bitloot/bitloot/internal/pkg/keyseal"
	"github.com/bitloot/bitloot/internal/pkg/link"
	"github.com/bitloot/bitloot/internal/server/http/handlers"
	"github.com/bitloot/bitloot/internal/server/http/router"
	"github.com/bitloot/bitloot/internal/storage/postgres"
	"github.com/bitloot/bitloot/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		keyseal.Module,
		link.Module,
		postgres.Module,
		supplier.Module,
		usecase.Module,
		fx.Provide(func(client supplier.Client) usecase.KeySource { return client }),
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
