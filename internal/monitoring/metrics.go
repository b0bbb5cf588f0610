package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Signal metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_dsl_signals_total",
			Help: "Total number of signals emitted",
		},
		[]string{"strategy", "type"},
	)

	signalStrength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "options_dsl_signal_strength",
			Help: "Strength of the most recent signal",
		},
		[]string{"strategy"},
	)

	// Position metrics
	positionsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_dsl_positions_opened_total",
			Help: "Total number of positions opened",
		},
		[]string{"strategy", "instrument"},
	)

	positionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_dsl_positions_rejected_total",
			Help: "Total number of signals rejected by portfolio constraints",
		},
		[]string{"strategy"},
	)

	premiumPaid = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "options_dsl_premium_paid",
			Help:    "Distribution of premium debits",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// Portfolio metrics
	portfolioEquity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "options_dsl_portfolio_equity",
			Help: "Current portfolio equity",
		},
		[]string{"strategy"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "options_dsl_current_price",
			Help: "Close price of the last processed bar",
		},
		[]string{"strategy"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_dsl_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(signalStrength)
	prometheus.MustRegister(positionsOpened)
	prometheus.MustRegister(positionsRejected)
	prometheus.MustRegister(premiumPaid)
	prometheus.MustRegister(portfolioEquity)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignal records a signal emission
func RecordSignal(strategy, signalType string, strength int) {
	signalsTotal.WithLabelValues(strategy, signalType).Inc()
	signalStrength.WithLabelValues(strategy).Set(float64(strength))
}

// RecordPositionOpen records a premium debit
func RecordPositionOpen(strategy, instrument string, premium float64) {
	positionsOpened.WithLabelValues(strategy, instrument).Inc()
	premiumPaid.WithLabelValues(strategy).Observe(premium)
}

// RecordRejection records a constraint rejection
func RecordRejection(strategy string) {
	positionsRejected.WithLabelValues(strategy).Inc()
}

// UpdateEquity updates the portfolio equity gauge
func UpdateEquity(strategy string, equity float64) {
	portfolioEquity.WithLabelValues(strategy).Set(equity)
}

// UpdatePrice updates the current price metric
func UpdatePrice(strategy string, price float64) {
	currentPrice.WithLabelValues(strategy).Set(price)
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
