package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Recorder holds the service collectors. A nil Recorder records nothing.
type Recorder struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ordersCreated   prometheus.Counter
	intakeFailures  *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	stockOversold   prometheus.Counter
}

// NewRegistry returns a registry with runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// New registers the service collectors on registry.
func New(registry prometheus.Registerer) *Recorder {
	factory := promauto.With(registry)
	return &Recorder{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders committed with a payment link.",
		}),
		intakeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_intake_failures_total",
			Help:      "Rejected or rolled back order submissions by reason.",
		}, []string{"reason"}),
		webhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Payment notifications by reconciliation outcome.",
		}, []string{"outcome"}),
		gatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Payment gateway calls by operation and result.",
		}, []string{"operation", "result"}),
		gatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment gateway latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		stockOversold: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_oversold_total",
			Help:      "Products left with negative stock after a paid transition.",
		}),
	}
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Recorder) OrderCreated() {
	if r == nil {
		return
	}
	r.ordersCreated.Inc()
}

func (r *Recorder) IntakeFailed(reason string) {
	if r == nil {
		return
	}
	r.intakeFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) WebhookEvent(outcome string) {
	if r == nil {
		return
	}
	r.webhookEvents.WithLabelValues(outcome).Inc()
}

func (r *Recorder) GatewayRequest(operation, result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.gatewayRequests.WithLabelValues(operation, result).Inc()
	r.gatewayDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *Recorder) StockOversold(products int) {
	if r == nil || products <= 0 {
		return
	}
	r.stockOversold.Add(float64(products))
}
