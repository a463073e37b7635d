package kdtree

import (
	"cmp"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/allnn/model"
)

// builder carries the state shared by one Build call. Forked subtree builds
// share points but only ever touch their own disjoint index range.
type builder struct {
	points    []model.Point
	capacity  int
	forkDepth int
	observer  func(begin, end int)
}

func (b *builder) build(begin, end int, box model.BoundingBox, depth int) node {
	if end-begin <= b.capacity {
		return &leafNode{begin: begin, count: end - begin}
	}

	axis, mid := b.split(begin, end, box)
	value := b.points[mid].Coord(axis)

	n := &splitNode{axis: axis, value: value}
	leftBox := box.ClampMax(axis, value)
	rightBox := box.ClampMin(axis, value)

	if depth != b.forkDepth {
		n.left = b.build(begin, mid, leftBox, depth+1)
		n.right = b.build(mid, end, rightBox, depth+1)
		return n
	}

	var g errgroup.Group
	g.Go(func() error {
		b.observe(begin, mid)
		n.left = b.build(begin, mid, leftBox, depth+1)
		return nil
	})
	g.Go(func() error {
		b.observe(mid, end)
		n.right = b.build(mid, end, rightBox, depth+1)
		return nil
	})
	g.Wait()

	return n
}

func (b *builder) observe(begin, end int) {
	if b.observer != nil {
		b.observer(begin, end)
	}
}

// split sorts [begin, end) and returns the axis and index to split at. Both
// resulting ranges are non-empty.
//
// The longest box axis is tried first, then the other one. If the points are
// identical on both axes the range is cut at its median index; that is the
// only case where the left side holds points equal to the split value.
func (b *builder) split(begin, end int, box model.BoundingBox) (model.Axis, int) {
	first := box.LongestAxis()
	for _, axis := range [2]model.Axis{first, first.Other()} {
		if mid, ok := b.partition(begin, end, axis); ok {
			return axis, mid
		}
	}
	return first, begin + (end-begin)/2
}

// partition sorts [begin, end) on axis and picks the median, moving it down
// so a run of equal coordinates stays right of the split. When the run
// reaches begin the median moves up past the run instead, keeping the run on
// the left. It reports false when every coordinate on axis is equal.
func (b *builder) partition(begin, end int, axis model.Axis) (int, bool) {
	pts := b.points[begin:end]
	slices.SortFunc(pts, func(p, q model.Point) int {
		return cmp.Compare(p.Coord(axis), q.Coord(axis))
	})

	half := len(pts) / 2
	mid := half
	for mid > 0 && pts[mid-1].Coord(axis) == pts[mid].Coord(axis) {
		mid--
	}
	if mid > 0 {
		return begin + mid, true
	}

	low := pts[0].Coord(axis)
	mid = half
	for mid < len(pts) && pts[mid].Coord(axis) == low {
		mid++
	}
	if mid == len(pts) {
		return 0, false
	}
	return begin + mid, true
}
