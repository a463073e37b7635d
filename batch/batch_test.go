package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/allnn/kdtree"
	"github.com/hupe1980/allnn/model"
	"github.com/hupe1980/allnn/testutil"
)

func TestChunks(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Chunks(0, 4))
	})

	t.Run("more workers than points", func(t *testing.T) {
		assert.Equal(t, []Range{{0, 1}, {1, 2}, {2, 3}}, Chunks(3, 8))
	})

	t.Run("zero workers means one", func(t *testing.T) {
		assert.Equal(t, []Range{{0, 5}}, Chunks(5, 0))
	})

	t.Run("tiles without overlap", func(t *testing.T) {
		for _, n := range []int{1, 7, 100, 1001} {
			for _, w := range []int{1, 2, 3, 8, 16} {
				chunks := Chunks(n, w)
				require.NotEmpty(t, chunks)
				assert.LessOrEqual(t, len(chunks), w)
				assert.Equal(t, 0, chunks[0].Begin)
				assert.Equal(t, n, chunks[len(chunks)-1].End)
				for i, c := range chunks {
					assert.Positive(t, c.Len())
					if i > 0 {
						assert.Equal(t, chunks[i-1].End, c.Begin)
					}
				}
			}
		}
	})
}

func TestRunMatchesTree(t *testing.T) {
	points := testutil.NewRNG(4711).UniformPoints(5000, 50, 750)
	tree := kdtree.New()
	tree.Build(10, points)

	pairs, err := New(func(o *Options) { o.Workers = 4 }).Run(context.Background(), tree, points)
	require.NoError(t, err)
	require.Len(t, pairs, len(points))

	for i, p := range pairs {
		assert.Equal(t, points[i], p.Query)
		assert.Equal(t, testutil.BruteForceSquaredDistance(points, i), p.Query.SquaredDistance(p.Nearest))
	}
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	points := testutil.NewRNG(1).ZipfPoints(3000, 200, 0.9)
	tree := kdtree.New()
	tree.Build(4, points)

	one, err := New(func(o *Options) { o.Workers = 1 }).Run(context.Background(), tree, points)
	require.NoError(t, err)

	for _, w := range []int{2, 3, 7, 32} {
		many, err := New(func(o *Options) { o.Workers = w }).Run(context.Background(), tree, points)
		require.NoError(t, err)
		assert.Equal(t, one, many, "workers=%d", w)
	}
}

func TestRunEmpty(t *testing.T) {
	pairs, err := New().Run(context.Background(), kdtree.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestRunUnbuiltTree(t *testing.T) {
	_, err := New().Run(context.Background(), kdtree.New(), []model.Point{model.Pt(1, 1)})
	assert.ErrorIs(t, err, kdtree.ErrNotBuilt)
}

type failingSearcher struct {
	failAt model.Point
	calls  atomic.Int64
}

var errBoom = errors.New("boom")

func (f *failingSearcher) NearestNeighbor(q model.Point) (model.Point, error) {
	f.calls.Add(1)
	if q.Equal(f.failAt) {
		return model.Point{}, errBoom
	}
	return q, nil
}

func TestRunPropagatesWorkerError(t *testing.T) {
	points := testutil.GridPoints(100, 100, 1)
	s := &failingSearcher{failAt: points[1234]}

	pairs, err := New(func(o *Options) { o.Workers = 8 }).Run(context.Background(), s, points)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "query 1234")
	assert.Nil(t, pairs)
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &failingSearcher{failAt: model.Pt(-1, -1)}
	_, err := New(func(o *Options) { o.Workers = 2 }).Run(ctx, s, testutil.GridPoints(10, 10, 1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.calls.Load())
}

func TestRunLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	points := testutil.GridPoints(100, 50, 2)
	tree := kdtree.New()
	tree.Build(8, points)

	_, err := New(func(o *Options) {
		o.Workers = 1
		o.Logger = logger
		o.ProgressInterval = time.Hour
	}).Run(context.Background(), tree, points)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "batch progress")
	assert.Contains(t, buf.String(), "batch completed")
}

func TestRunCountsEveryQuery(t *testing.T) {
	// 5000 points over 3 workers leave a partial block at the end of
	// every chunk.
	points := testutil.GridPoints(100, 50, 2)
	tree := kdtree.New()
	tree.Build(8, points)

	for _, workers := range []int{1, 3, 7} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := New(func(o *Options) {
			o.Workers = workers
			o.Logger = logger
			o.ProgressInterval = 0
		}).Run(context.Background(), tree, points)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "queries=5000 done=5000", "workers %d", workers)
	}
}
