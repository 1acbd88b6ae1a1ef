package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderIntake,
	NewWebhookReconciler,
	NewOrderQuery,
	NewProductCatalog,
)

type intakeParams struct {
	fx.In

	Config     *config.Config
	Transactor repository.Transactor
	Gateway    PaymentGateway
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

func newOrderIntake(p intakeParams) (*OrderIntake, error) {
	return NewOrderIntake(p.Transactor, p.Gateway, IntakeSettings{
		PublicBaseURL: p.Config.PublicBaseURL,
		ReturnOrigin:  p.Config.ReturnOrigin,
		Currency:      p.Config.Currency,
	}, p.Logger, p.Metrics)
}
