package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported by one APIServer. Each server has its
// own registry so several can live in one process.
type Metrics struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	count    prometheus.Gauge
	capacity prometheus.Gauge
	load     prometheus.Gauge
}

func NewMetrics(name string) *Metrics {
	labels := prometheus.Labels{"table": name}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "hashtable_operations_total",
			Help:        "Table operations by type and result.",
			ConstLabels: labels,
		}, []string{"op", "result"}),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hashtable_entries",
			Help:        "Live pairs in the table.",
			ConstLabels: labels,
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hashtable_capacity",
			Help:        "Slots in the table.",
			ConstLabels: labels,
		}),
		load: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hashtable_load_percent",
			Help:        "Live pairs as a percentage of capacity.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(m.ops, m.count, m.capacity, m.load)
	return m
}

func (m *Metrics) Observe(op, result string, st Stats) {
	m.ops.WithLabelValues(op, result).Inc()
	m.count.Set(float64(st.Count))
	m.capacity.Set(float64(st.Capacity))
	m.load.Set(float64(st.Load))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
