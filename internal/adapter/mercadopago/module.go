package mercadopago

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/metrics"
)

// Module exposes the payment gateway client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Recorder `optional:"true"`
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.MPAPIURL, p.Config.MPAccessToken, p.Config.MPTimeout, p.Logger, WithMetrics(p.Metrics))
}
