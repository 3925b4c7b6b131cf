// Package metrics exposes planner counters in the Prometheus format.
package metrics

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the planner collectors on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	snaps      *prometheus.CounterVec
	operations *prometheus.CounterVec
	sessions   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		snaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "snaps_total",
			Help:      "Resolved snap queries by winning snap kind.",
		}, []string{"kind"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planner",
			Name:      "operations_total",
			Help:      "Editing operations by name and result.",
		}, []string{"operation", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planner",
			Name:      "drawing_sessions",
			Help:      "Open drawing sessions.",
		}),
	}
	m.registry.MustRegister(
		m.snaps,
		m.operations,
		m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSnap counts one resolved query. An empty kind means no snap.
func (m *Metrics) ObserveSnap(kind string) {
	if kind == "" {
		kind = "none"
	}
	m.snaps.WithLabelValues(kind).Inc()
}

// ObserveOperation counts an editing operation; err != nil counts as a failure.
func (m *Metrics) ObserveOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) SessionOpened() { m.sessions.Inc() }
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// Registry returns the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry on a fiber route.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
