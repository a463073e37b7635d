package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// promCollector implements allnn.MetricsCollector on a private registry that
// is written out as a node-exporter textfile when the run ends.
type promCollector struct {
	registry    *prometheus.Registry
	latency     *prometheus.HistogramVec
	points      prometheus.Gauge
	queries     *prometheus.CounterVec
	validations *prometheus.CounterVec
}

func newPromCollector() *promCollector {
	c := &promCollector{
		registry: prometheus.NewRegistry(),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "allnn_phase_duration_seconds",
			Help:    "Duration of build, query and validation phases",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "allnn_points",
			Help: "Number of points in the last built tree",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allnn_queries_total",
			Help: "Nearest-neighbour queries by batch status",
		}, []string{"status"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "allnn_validations_total",
			Help: "Validations by verdict",
		}, []string{"result"}),
	}

	c.registry.MustRegister(c.latency, c.points, c.queries, c.validations)
	return c
}

func (c *promCollector) RecordBuild(points int, d time.Duration) {
	c.latency.WithLabelValues("build").Observe(d.Seconds())
	c.points.Set(float64(points))
}

func (c *promCollector) RecordBatch(queries int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.latency.WithLabelValues("query").Observe(d.Seconds())
	c.queries.WithLabelValues(status).Add(float64(queries))
}

func (c *promCollector) RecordValidation(ok bool, d time.Duration) {
	result := "pass"
	if !ok {
		result = "fail"
	}
	c.latency.WithLabelValues("validation").Observe(d.Seconds())
	c.validations.WithLabelValues(result).Inc()
}

// WriteTo writes all metrics to filename atomically.
func (c *promCollector) WriteTo(filename string) error {
	return prometheus.WriteToTextfile(filename, c.registry)
}
