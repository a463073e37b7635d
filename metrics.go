package allnn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each tree build.
	// points is the size of the input set, duration the time taken.
	RecordBuild(points int, duration time.Duration)

	// RecordBatch is called after each batch of queries.
	// err is nil if every query succeeded.
	RecordBatch(queries int, duration time.Duration, err error)

	// RecordValidation is called after each validation.
	RecordValidation(ok bool, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration)        {}
func (NoopMetricsCollector) RecordBatch(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordValidation(bool, time.Duration)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildPoints      atomic.Int64
	BuildTotalNanos  atomic.Int64
	BatchCount       atomic.Int64
	BatchErrors      atomic.Int64
	BatchQueries     atomic.Int64
	BatchTotalNanos  atomic.Int64
	ValidationCount  atomic.Int64
	ValidationFailed atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(points int, duration time.Duration) {
	b.BuildCount.Add(1)
	b.BuildPoints.Add(int64(points))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(queries int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BatchErrors.Add(1)
		return
	}
	b.BatchQueries.Add(int64(queries))
}

// RecordValidation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordValidation(ok bool, _ time.Duration) {
	b.ValidationCount.Add(1)
	if !ok {
		b.ValidationFailed.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildPoints:      b.BuildPoints.Load(),
		BuildAvgNanos:    avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		BatchCount:       b.BatchCount.Load(),
		BatchErrors:      b.BatchErrors.Load(),
		BatchQueries:     b.BatchQueries.Load(),
		QueryAvgNanos:    avg(b.BatchTotalNanos.Load(), b.BatchQueries.Load()),
		ValidationCount:  b.ValidationCount.Load(),
		ValidationFailed: b.ValidationFailed.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildPoints      int64
	BuildAvgNanos    int64
	BatchCount       int64
	BatchErrors      int64
	BatchQueries     int64
	QueryAvgNanos    int64 // batch wall time per successful query
	ValidationCount  int64
	ValidationFailed int64
}
