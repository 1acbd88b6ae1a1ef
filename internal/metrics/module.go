package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the registry and the service recorder.
var Module = fx.Provide(
	NewRegistry,
	func(registry *prometheus.Registry) *Recorder { return New(registry) },
)
