package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Operation results used as the "result" label.
const (
	ResultSuccess             = "success"
	ResultInsufficientBalance = "insufficient_balance"
	ResultConflict            = "conflict"
	ResultError               = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Wallet metrics
	WalletOperations  *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	WalletBalance     prometheus.Gauge

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Wallet metrics
		WalletOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_operations_total",
				Help: "Total wallet operations by type and result",
			},
			[]string{"operation", "result"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_operation_duration_seconds",
				Help:    "Duration of wallet operations including conflict retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		WalletBalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_balance",
			Help: "Wallet balance after the last successful operation",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ObserveOperation records the outcome and duration of a wallet operation.
func (m *Metrics) ObserveOperation(operation string, err error, duration time.Duration) {
	m.WalletOperations.WithLabelValues(operation, resultLabel(err)).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetBalance publishes the latest known balance.
func (m *Metrics) SetBalance(balance decimal.Decimal) {
	m.WalletBalance.Set(balance.InexactFloat64())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, domain.ErrInsufficientBalance):
		return ResultInsufficientBalance
	case errors.Is(err, domain.ErrLedgerConflict):
		return ResultConflict
	default:
		return ResultError
	}
}
