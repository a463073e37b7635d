package validate

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/allnn/batch"
	"github.com/hupe1980/allnn/model"
)

// ErrTooFewPoints is returned by BruteForce for sets without a second point.
var ErrTooFewPoints = errors.New("validate: at least two points are required")

// Options configures Validate.
type Options struct {
	// Workers is the number of goroutines checking pairs. Values below 1 use
	// runtime.GOMAXPROCS(0).
	Workers int

	// TieTolerant compares pairs by position instead of membership: pair i
	// is correct when its query equals reference[i].Query and both
	// neighbours lie at the same distance. Use it when the reference may
	// have picked a different point among equally close ones.
	TieTolerant bool
}

// Report is the outcome of a validation.
type Report struct {
	// OK is true when the result matches the reference.
	OK bool

	// LengthMismatch is set when result and reference differ in length.
	// No pair is checked in that case.
	LengthMismatch bool
	ResultLen      int
	ReferenceLen   int

	// Mismatches holds the indices of result pairs missing from the reference.
	Mismatches *roaring.Bitmap
}

// FirstMismatch returns the smallest index of a pair not found in the
// reference, and false if there is none.
func (r Report) FirstMismatch() (int, bool) {
	if r.Mismatches == nil || r.Mismatches.IsEmpty() {
		return 0, false
	}
	return int(r.Mismatches.Minimum()), true
}

// MismatchCount returns the number of pairs not found in the reference.
func (r Report) MismatchCount() int {
	if r.Mismatches == nil {
		return 0
	}
	return int(r.Mismatches.GetCardinality())
}

// Validate compares result with reference. The returned error is only
// non-nil if ctx is cancelled.
func Validate(ctx context.Context, result, reference []model.Pair, optFns ...func(o *Options)) (Report, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	report := Report{
		ResultLen:    len(result),
		ReferenceLen: len(reference),
		Mismatches:   roaring.New(),
	}
	if len(result) != len(reference) {
		report.LengthMismatch = true
		return report, nil
	}

	missing := membership(reference)
	if opts.TieTolerant {
		missing = sameDistance(reference)
	}

	chunks := batch.Chunks(len(result), opts.Workers)
	partial := make([]*roaring.Bitmap, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		g.Go(func() error {
			bm := roaring.New()
			for j := c.Begin; j < c.End; j++ {
				if j%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if missing(j, result[j]) {
					bm.Add(uint32(j))
				}
			}
			partial[i] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("validate: %w", err)
	}

	report.Mismatches = roaring.FastOr(partial...)
	report.OK = report.Mismatches.IsEmpty()
	return report, nil
}

// membership reports pairs that occur nowhere in reference.
func membership(reference []model.Pair) func(int, model.Pair) bool {
	want := make(map[model.PairKey]struct{}, len(reference))
	for _, p := range reference {
		want[p.Key()] = struct{}{}
	}
	return func(_ int, p model.Pair) bool {
		_, ok := want[p.Key()]
		return !ok
	}
}

// sameDistance reports pairs whose query or neighbour distance differs from
// the reference pair at the same index.
func sameDistance(reference []model.Pair) func(int, model.Pair) bool {
	return func(i int, p model.Pair) bool {
		ref := reference[i]
		if !p.Query.Equal(ref.Query) {
			return true
		}
		return p.Query.SquaredDistance(p.Nearest) != ref.Query.SquaredDistance(ref.Nearest)
	}
}

// BruteForce computes the reference solution by comparing every pair of
// points. Each point's own index is excluded; duplicates of its value are
// not. Ties resolve to the lowest index.
func BruteForce(points []model.Point) ([]model.Pair, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	pairs := make([]model.Pair, len(points))
	for i, q := range points {
		best := -1
		var bestSq float64
		for j, p := range points {
			if i == j {
				continue
			}
			if d := q.SquaredDistance(p); best < 0 || d < bestSq {
				best, bestSq = j, d
			}
		}
		pairs[i] = model.Pair{Query: q, Nearest: points[best]}
	}
	return pairs, nil
}
