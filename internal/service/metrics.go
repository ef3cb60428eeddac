package service

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	OrderSubmissions       *prometheus.CounterVec
	OrderSubmissionLatency *prometheus.HistogramVec
	TradesRecorded         prometheus.Counter
	OpenHoldings           prometheus.Gauge
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		OrderSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_submissions_total",
				Help: "Total order submission attempts by outcome.",
			},
			[]string{"outcome"},
		),
		OrderSubmissionLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "order_submission_latency_seconds",
				Help:    "Order submission latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		TradesRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trades_recorded_total",
				Help: "Total trades appended to the ledger.",
			},
		),
		OpenHoldings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "portfolio_open_holdings",
				Help: "Number of instruments currently held.",
			},
		),
	}

	registry.MustRegister(
		m.OrderSubmissions,
		m.OrderSubmissionLatency,
		m.TradesRecorded,
		m.OpenHoldings,
	)
	return m
}
