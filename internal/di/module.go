package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/adapter/mercadopago"
	"github.com/polkiloo/storefront/internal/app"
	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/logger"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
	"github.com/polkiloo/storefront/internal/server/http/router"
	"github.com/polkiloo/storefront/internal/storage/postgres"
	"github.com/polkiloo/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		mercadopago.Module,
		usecase.Module,
		fx.Provide(
			func(client mercadopago.Client) usecase.PaymentGateway { return client },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.StoreFacade) handlers.StoreFacade { return f },
			func(a *auth.AdminAuthenticator) middleware.CredentialChecker { return a },
			func(v *auth.SignatureVerifier) handlers.SignatureVerifier { return v },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
