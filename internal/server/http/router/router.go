package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/bitloot/bitloot/internal/server/http/handlers"
	"github.com/bitloot/bitloot/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.Authenticate(facade))

	orderHandler := handlers.NewOrderHandler(facade)
	fulfillmentHandler := handlers.NewFulfillmentHandler(facade, facade)
	promoHandler := handlers.NewPromoHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)

	api := engine.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Checkout)
	orders.GET("/:id", orderHandler.Get)

	api.POST("/payments/webhook", webhookHandler.Payment)

	fulfillment := api.Group("/fulfillment")
	fulfillment.GET("/health/check", fulfillmentHandler.Health)
	fulfillment.GET("/:id/status", fulfillmentHandler.Status)
	fulfillment.GET("/:id/download-link", fulfillmentHandler.DownloadLink)
	fulfillment.GET("/:id/download", fulfillmentHandler.Download)
	fulfillment.GET("/:id/download/:itemId", fulfillmentHandler.Download)
	fulfillment.POST("/:id/reveal/:itemId", fulfillmentHandler.Reveal)
	fulfillment.POST("/:id/recover", fulfillmentHandler.Recover)

	api.POST("/promos/validate", promoHandler.Validate)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/promos", promoHandler.Create)
	admin.GET("/promos", promoHandler.List)
	admin.GET("/promos/:id", promoHandler.Get)
	admin.PATCH("/promos/:id", promoHandler.Update)
	admin.DELETE("/promos/:id", promoHandler.Delete)
	admin.GET("/orders/:id/audit", fulfillmentHandler.Audit)

	adminFulfillment := fulfillment.Group("")
	adminFulfillment.Use(middleware.RequireAdmin())
	adminFulfillment.POST("/:id/reveal-key/:itemId", fulfillmentHandler.Reveal)

	return engine
}
