package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/leiter/marketday/internal/server/http/handlers"
	"github.com/leiter/marketday/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	catalogHandler := handlers.NewCatalogHandler(facade)
	basketHandler := handlers.NewBasketHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	api := engine.Group("/api")
	api.GET("/catalog", catalogHandler.List)

	basket := api.Group("/basket")
	basket.GET("", basketHandler.Get)
	basket.PUT("/items", basketHandler.SetItem)
	basket.DELETE("/items/:id", basketHandler.RemoveItem)
	basket.PUT("/pickup-date", basketHandler.SetPickupDate)
	basket.POST("/new", basketHandler.StartNew)
	basket.POST("/load/:orderID", basketHandler.LoadOrder)
	basket.POST("/checkout", basketHandler.Checkout)

	orders := api.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	orders.POST("/:id/hide", orderHandler.Hide)
	orders.GET("/:id/window", orderHandler.Window)

	return engine
}
