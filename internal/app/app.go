package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/leiter/marketday/internal/config"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/domain/repository"
	"github.com/leiter/marketday/internal/reconcile"
	"github.com/leiter/marketday/internal/usecase"
	"github.com/leiter/marketday/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newMarketFacade,
		newHTTPServer,
		newFeedPump,
		newArticleStore,
		newOrderStore,
		newBasketItemStore,
	),
	fx.Invoke(registerLifecycle),
)

func newArticleStore(logger *slog.Logger) *reconcile.Store[model.Article] {
	return reconcile.NewStore("articles", func(a model.Article) string { return a.ID }, logger)
}

func newOrderStore(logger *slog.Logger) *reconcile.Store[model.Order] {
	return reconcile.NewStore("orders", func(o model.Order) string { return o.ID }, logger)
}

func newBasketItemStore(logger *slog.Logger) *reconcile.Store[model.OrderedProduct] {
	return reconcile.NewStore("basket-items", func(p model.OrderedProduct) string { return p.ID }, logger)
}

type facadeParams struct {
	fx.In

	Catalog *usecase.CatalogUseCase
	Basket  *usecase.BasketUseCase
	Orders  *usecase.OrderUseCase
	Config  *config.Config
}

func newMarketFacade(p facadeParams) *MarketFacade {
	return NewMarketFacade(p.Catalog, p.Basket, p.Orders, p.Config.BuyerID, p.Config.SellerID, p.Config.MarketID)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type pumpParams struct {
	fx.In

	Source      repository.FeedSource
	Articles    *reconcile.Store[model.Article]
	Orders      *reconcile.Store[model.Order]
	BasketItems *reconcile.Store[model.OrderedProduct]
	Catalog     repository.CatalogRepository
	OrderRepo   repository.OrderRepository
	Baskets     repository.BasketRepository
	Config      *config.Config
	Logger      *slog.Logger
}

func newFeedPump(p pumpParams) *worker.FeedPump {
	return worker.NewFeedPump(
		p.Source,
		p.Articles,
		p.Orders,
		p.BasketItems,
		p.Catalog,
		p.OrderRepo,
		p.Baskets,
		p.Config.SellerID,
		p.Config.BuyerID,
		p.Config.FeedRetryInterval,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Pump       *worker.FeedPump
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Logger.Info("starting marketday", slog.String("addr", p.Server.Addr))
			// The pump outlives the start hook; Stop cancels it.
			p.Pump.Start(context.Background())
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Pump.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("marketday stopped")
			return nil
		},
	})
}
