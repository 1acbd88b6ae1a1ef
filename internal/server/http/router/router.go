package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// Params lists router dependencies.
type Params struct {
	fx.In

	Facade   handlers.StoreFacade
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	Registry *prometheus.Registry
	Admin    middleware.CredentialChecker
	Verifier handlers.SignatureVerifier
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(p.Config.AllowedOrigins))
	engine.Use(middleware.Metrics(p.Metrics))
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	orderHandler := handlers.NewOrderHandler(p.Facade)
	productHandler := handlers.NewProductHandler(p.Facade)
	webhookHandler := handlers.NewWebhookHandler(p.Facade, p.Verifier, p.Logger)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.GET("/productos", productHandler.List)
	api.POST("/pedidos", orderHandler.Create)
	api.GET("/pedidos/:id", orderHandler.Get)
	api.POST("/webhooks/mp", webhookHandler.Receive)

	admin := api.Group("/admin")
	admin.Use(middleware.BasicAuth(p.Admin))
	admin.POST("/productos", productHandler.Create)
	admin.PUT("/productos/:id", productHandler.Update)
	admin.GET("/pedidos/:id", orderHandler.Get)

	if p.Registry != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))
	}

	return engine
}
