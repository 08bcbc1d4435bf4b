package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/goremit/internal/domain"
)

const namespace = "goremit"

// Metrics holds all Prometheus metrics and implements usecase.Metrics.
type Metrics struct {
	// Remittance metrics
	Remittances  *prometheus.CounterVec
	RemitAmount  prometheus.Histogram
	Deposits     prometheus.Counter
	DepositTotal prometheus.Counter

	// Account metrics
	AccountsOpened prometheus.Counter

	// Lock metrics
	LockFailures prometheus.Counter
	LockWaitTime prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Remittances: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remittances_total",
				Help:      "Total remittance attempts by result",
			},
			[]string{"result"},
		),
		RemitAmount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remit_amount",
			Help:      "Amounts of successful remittances",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000, 2000000},
		}),
		Deposits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Total number of deposits",
		}),
		DepositTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposit_amount_total",
			Help:      "Sum of deposited amounts",
		}),

		AccountsOpened: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_opened_total",
			Help:      "Total number of accounts opened",
		}),

		LockFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_acquire_failures_total",
			Help:      "Account locks not acquired within the wait timeout",
		}),
		LockWaitTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for account locks",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}
}

// AccountOpened implements usecase.Metrics.
func (m *Metrics) AccountOpened() {
	m.AccountsOpened.Inc()
}

// DepositCompleted implements usecase.Metrics.
func (m *Metrics) DepositCompleted(amount int64) {
	m.Deposits.Inc()
	m.DepositTotal.Add(float64(amount))
}

// RemitCompleted implements usecase.Metrics.
func (m *Metrics) RemitCompleted(result domain.TransactionResult, amount int64) {
	m.Remittances.WithLabelValues(string(result)).Inc()
	if result == domain.TransactionResultSuccess {
		m.RemitAmount.Observe(float64(amount))
	}
}

// LockWait implements usecase.Metrics.
func (m *Metrics) LockWait(d time.Duration, acquired bool) {
	m.LockWaitTime.Observe(d.Seconds())
	if !acquired {
		m.LockFailures.Inc()
	}
}
