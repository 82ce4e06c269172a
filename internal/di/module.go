package di

import (
	"go.uber.org/fx"

	"github.com/leiter/marketday/internal/adapter/feed"
	"github.com/leiter/marketday/internal/app"
	"github.com/leiter/marketday/internal/config"
	"github.com/leiter/marketday/internal/lifecycle"
	"github.com/leiter/marketday/internal/logger"
	"github.com/leiter/marketday/internal/server/http/handlers"
	"github.com/leiter/marketday/internal/server/http/router"
	"github.com/leiter/marketday/internal/storage/postgres"
	"github.com/leiter/marketday/internal/storage/rediscache"
	"github.com/leiter/marketday/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		lifecycle.Module,
		postgres.Module,
		rediscache.Module,
		feed.Module,
		usecase.Module,
		fx.Provide(func(facade *app.MarketFacade) handlers.MarketFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
