package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	parseErrors   prometheus.Counter
	parsedTotal   prometheus.Counter
	matched       prometheus.Gauge
	publishErrors prometheus.Counter
	cycleDuration prometheus.Summary
	lastSuccessTS prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
	}

	m.fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "poikkeusinfo",
		Name:      "fetch_total",
		Help:      "Feed fetches by result",
	}, []string{"result"})
	m.parseErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "poikkeusinfo",
		Name:      "parse_errors_total",
		Help:      "Feed documents that could not be parsed",
	})
	m.parsedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "poikkeusinfo",
		Name:      "notifications_parsed_total",
		Help:      "Disruption notifications parsed from the feed",
	})
	m.matched = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "poikkeusinfo",
		Name:      "notifications_matched",
		Help:      "Notifications matching a line rule in the last cycle",
	})
	m.publishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "poikkeusinfo",
		Name:      "publish_errors_total",
		Help:      "Cycles whose result could not be published",
	})
	m.cycleDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "poikkeusinfo",
		Name:      "cycle_duration_seconds",
		Help:      "Time spent on a fetch, parse, filter and publish cycle",
	})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "poikkeusinfo",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last fully successful cycle",
	})

	m.Registry.MustRegister(
		m.fetchTotal, m.parseErrors, m.parsedTotal, m.matched,
		m.publishErrors, m.cycleDuration, m.lastSuccessTS,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}
