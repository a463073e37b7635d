package allnn

import (
	"log/slog"

	"github.com/hupe1980/allnn/kdtree"
)

// DefaultLeafCapacity is the maximum number of points per leaf used when no
// capacity is configured.
const DefaultLeafCapacity = 10

type options struct {
	leafCapacity     int
	workers          int
	parallelDepth    int
	tieTolerant      bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Solver.
type Option func(*options)

// WithLeafCapacity sets the maximum number of points stored in one leaf.
// Values below 1 are treated as 1.
func WithLeafCapacity(capacity int) Option {
	return func(o *options) {
		o.leafCapacity = capacity
	}
}

// WithWorkers sets the number of goroutines answering queries.
// Values below 1 use runtime.GOMAXPROCS(0).
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithParallelDepth sets the tree depth whose subtrees are built on their own
// goroutines. A negative depth builds sequentially.
//
// Defaults to kdtree.DefaultParallelDepth.
func WithParallelDepth(depth int) Option {
	return func(o *options) {
		o.parallelDepth = depth
	}
}

// WithTieTolerantValidation makes Validate accept a different neighbour at
// the same distance as the reference one.
func WithTieTolerantValidation() Option {
	return func(o *options) {
		o.tieTolerant = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &allnn.BasicMetricsCollector{}
//	solver := allnn.New(allnn.WithMetricsCollector(metrics))
//	// ... use solver ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.BatchQueries, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := allnn.NewJSONLogger(slog.LevelInfo)
//	solver := allnn.New(allnn.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func defaultOptions() options {
	return options{
		leafCapacity:  DefaultLeafCapacity,
		parallelDepth: kdtree.DefaultParallelDepth,
	}
}
