package allnn

import (
	"context"
	"time"

	"github.com/hupe1980/allnn/batch"
	"github.com/hupe1980/allnn/kdtree"
	"github.com/hupe1980/allnn/model"
	"github.com/hupe1980/allnn/validate"
)

// Result is the outcome of Solve.
type Result struct {
	// Pairs holds one pair per input point, in input order.
	Pairs []model.Pair

	// Tree is the tree the queries ran against. It stays valid and can be
	// queried or walked after Solve returned.
	Tree *kdtree.Tree

	BuildDuration time.Duration
	QueryDuration time.Duration
}

// Solver computes all-nearest-neighbour solutions. It holds no state between
// calls and is safe for concurrent use.
type Solver struct {
	opts       options
	dispatcher *batch.Dispatcher
	metrics    MetricsCollector
	logger     *Logger
}

// New creates a Solver.
func New(optFns ...Option) *Solver {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	metrics := opts.metricsCollector
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	logger := opts.logger
	if logger == nil {
		logger = NoopLogger()
	}

	return &Solver{
		opts:    opts,
		metrics: metrics,
		logger:  logger,
		dispatcher: batch.New(func(o *batch.Options) {
			o.Workers = opts.workers
			o.Logger = logger.Logger
		}),
	}
}

// Workers returns the number of query workers.
func (s *Solver) Workers() int {
	return s.dispatcher.Workers()
}

// Build builds a tree over points with the configured capacity and
// parallelism.
func (s *Solver) Build(ctx context.Context, points []model.Point) *kdtree.Tree {
	tree := kdtree.New(func(o *kdtree.Options) {
		o.ParallelDepth = s.opts.parallelDepth
		o.Logger = s.logger.Logger
	})

	start := time.Now()
	tree.Build(s.opts.leafCapacity, points)
	elapsed := time.Since(start)

	s.metrics.RecordBuild(len(points), elapsed)
	s.logger.LogBuild(ctx, len(points), tree.LeafCapacity(), elapsed)
	return tree
}

// Solve finds the nearest other point for every point.
//
// A set with a single point yields ErrNoNeighbor. Solve returns ErrEmptyInput
// for an empty set.
func (s *Solver) Solve(ctx context.Context, points []model.Point) (*Result, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	start := time.Now()
	tree := s.Build(ctx, points)
	buildDuration := time.Since(start)

	start = time.Now()
	pairs, err := s.dispatcher.Run(ctx, tree, points)
	queryDuration := time.Since(start)

	s.metrics.RecordBatch(len(points), queryDuration, err)
	s.logger.LogBatch(ctx, len(points), s.dispatcher.Workers(), queryDuration, err)

	if err != nil {
		return nil, &ErrSolve{Phase: "query", cause: err}
	}

	return &Result{
		Pairs:         pairs,
		Tree:          tree,
		BuildDuration: buildDuration,
		QueryDuration: queryDuration,
	}, nil
}

// Validate compares pairs with a reference solution.
func (s *Solver) Validate(ctx context.Context, pairs, reference []model.Pair) (validate.Report, error) {
	start := time.Now()
	report, err := validate.Validate(ctx, pairs, reference, func(o *validate.Options) {
		o.Workers = s.opts.workers
		o.TieTolerant = s.opts.tieTolerant
	})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordValidation(false, elapsed)
		s.logger.ErrorContext(ctx, "validation aborted",
			"pairs", len(pairs),
			"error", err,
		)
		return report, &ErrSolve{Phase: "validation", cause: err}
	}

	mismatches := report.MismatchCount()
	if report.LengthMismatch {
		mismatches = max(report.ResultLen, report.ReferenceLen)
	}

	s.metrics.RecordValidation(report.OK, elapsed)
	s.logger.LogValidation(ctx, len(pairs), mismatches, elapsed)
	return report, nil
}
