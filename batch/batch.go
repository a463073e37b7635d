package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/allnn/model"
)

// progressBlock is the number of queries a worker answers between progress
// updates and cancellation checks.
const progressBlock = 1024

// Searcher answers a single nearest-neighbour query. It must be safe for
// concurrent use.
type Searcher interface {
	NearestNeighbor(q model.Point) (model.Point, error)
}

// Options configures a Dispatcher.
type Options struct {
	// Workers is the number of concurrent workers. Values below 1 use
	// runtime.GOMAXPROCS(0).
	Workers int

	// ProgressInterval is the minimum time between two progress log lines.
	// Zero disables progress logging.
	ProgressInterval time.Duration

	// Logger receives progress output. Nil discards it.
	Logger *slog.Logger
}

// DefaultOptions contains the default Dispatcher configuration.
var DefaultOptions = Options{
	ProgressInterval: 5 * time.Second,
}

// Dispatcher runs batches of nearest-neighbour queries.
type Dispatcher struct {
	workers  int
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Dispatcher.
func New(optFns ...func(o *Options)) *Dispatcher {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Workers < 1 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Dispatcher{
		workers:  opts.Workers,
		interval: opts.ProgressInterval,
		logger:   opts.Logger,
	}
}

// Workers returns the configured worker count.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Range is a half-open index range [Begin, End).
type Range struct {
	Begin int
	End   int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.End - r.Begin
}

// Chunks splits [0, n) into at most workers contiguous, non-empty ranges of
// nearly equal size.
func Chunks(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	workers = min(max(workers, 1), n)

	size := (n + workers - 1) / workers
	chunks := make([]Range, 0, workers)
	for begin := 0; begin < n; begin += size {
		chunks = append(chunks, Range{Begin: begin, End: min(begin+size, n)})
	}
	return chunks
}

// Run queries s for every point and returns one pair per point, in input
// order. It blocks until every worker has finished. The first failing query
// stops the remaining workers and its error is returned.
func (d *Dispatcher) Run(ctx context.Context, s Searcher, points []model.Point) ([]model.Pair, error) {
	pairs := make([]model.Pair, len(points))
	if len(points) == 0 {
		return pairs, nil
	}

	chunks := Chunks(len(points), d.workers)
	p := d.newProgress(len(points))

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		g.Go(func() error {
			for i := c.Begin; i < c.End; i++ {
				if (i-c.Begin)%progressBlock == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
					if i > c.Begin {
						p.add(progressBlock)
					}
				}

				nn, err := s.NearestNeighbor(points[i])
				if err != nil {
					return fmt.Errorf("batch: query %d %s: %w", i, points[i], err)
				}
				pairs[i] = model.Pair{Query: points[i], Nearest: nn}
			}
			p.add(int64((c.Len()-1)%progressBlock + 1))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.logger.Debug("batch completed",
		"queries", len(points),
		"done", p.done.Load(),
		"workers", len(chunks),
	)
	return pairs, nil
}

type progress struct {
	total     int64
	done      atomic.Int64
	sometimes *rate.Sometimes
	logger    *slog.Logger
}

func (d *Dispatcher) newProgress(total int) *progress {
	p := &progress{total: int64(total), logger: d.logger}
	if d.interval > 0 {
		p.sometimes = &rate.Sometimes{Interval: d.interval}
	}
	return p
}

func (p *progress) add(n int64) {
	done := p.done.Add(n)
	if p.sometimes == nil {
		return
	}
	p.sometimes.Do(func() {
		p.logger.Info("batch progress",
			"done", done,
			"total", p.total,
			"percent", 100*done/p.total,
		)
	})
}
