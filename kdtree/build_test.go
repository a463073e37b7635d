package kdtree

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/allnn/model"
	"github.com/hupe1980/allnn/testutil"
)

// checkNode verifies the split invariants below n and returns the index
// range n covers.
func checkNode(t *testing.T, tree *Tree, n node) (int, int) {
	t.Helper()

	switch n := n.(type) {
	case *leafNode:
		assert.GreaterOrEqual(t, n.count, 1)
		assert.LessOrEqual(t, n.count, tree.capacity)
		return n.begin, n.begin + n.count

	case *splitNode:
		lb, le := checkNode(t, tree, n.left)
		rb, re := checkNode(t, tree, n.right)
		assert.Equal(t, le, rb, "children must be adjacent")
		// Child builds reorder their own ranges, so the split point is
		// found as the smallest coordinate of the right range.
		low := tree.points[rb].Coord(n.axis)
		for _, p := range tree.points[rb:re] {
			low = min(low, p.Coord(n.axis))
		}
		assert.Equal(t, n.value, low, "split value is the smallest coordinate on the right")

		identical := true
		for _, p := range tree.points[lb:re] {
			if !p.Equal(tree.points[lb]) {
				identical = false
				break
			}
		}
		for _, p := range tree.points[lb:le] {
			if !identical {
				assert.Less(t, p.Coord(n.axis), n.value)
			}
		}
		for _, p := range tree.points[rb:re] {
			assert.GreaterOrEqual(t, p.Coord(n.axis), n.value)
		}
		return lb, re
	}

	t.Fatalf("unknown node type %T", n)
	return 0, 0
}

func TestBuildInvariants(t *testing.T) {
	for name, points := range datasets() {
		for _, capacity := range []int{1, 2, 5, 16} {
			tree := build(t, capacity, points)

			begin, end := checkNode(t, tree, tree.root)
			assert.Equal(t, 0, begin, name)
			assert.Equal(t, len(points), end, name)

			s := tree.Stats()
			assert.GreaterOrEqual(t, s.MinLeafSize, 1, name)
			assert.LessOrEqual(t, s.MaxLeafSize, capacity, name)
			assert.Equal(t, 2*s.Leaves-1, s.Nodes, "%s: full binary tree", name)
		}
	}
}

func TestBuildLeavesOwnTheirPoints(t *testing.T) {
	rng := testutil.NewRNG(3)
	tree := build(t, 4, rng.UniformPoints(500, 0, 100))
	points := tree.Points()

	covered := 0
	tree.Walk(func(info NodeInfo) bool {
		if info.Leaf {
			for _, p := range points[info.Begin : info.Begin+info.Count] {
				assert.True(t, info.Box.Contains(p), "%s outside %v", p, info.Box)
			}
			covered += info.Count
		}
		return true
	})
	assert.Equal(t, len(points), covered)
}

func TestBuildDegenerateInputsTerminate(t *testing.T) {
	cases := map[string][]model.Point{
		// The lower half is one run while the box still spans the axis.
		"run at range start": pts(0, 0, 0, 0, 0, 0, 10, 0),
		"all identical":      pts(3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3),
		"constant x":         pts(5, 0, 5, 1, 5, 2, 5, 3, 5, 4, 5, 5),
		"constant y wide box": append(pts(0, 9, 1000, 9), pts(500, 9, 500, 9, 500, 9, 500, 9, 500, 9)...),
		"two values":         pts(1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2),
	}

	for name, points := range cases {
		t.Run(name, func(t *testing.T) {
			tree := build(t, 1, points)
			checkNode(t, tree, tree.root)
			assert.Equal(t, 1, tree.Stats().MaxLeafSize)

			for i, q := range points {
				nn, err := tree.NearestNeighbor(q)
				require.NoError(t, err)
				assert.Equal(t, testutil.BruteForceSquaredDistance(points, i), q.SquaredDistance(nn))
			}
		})
	}
}

func TestBuildTieMovesRight(t *testing.T) {
	// Sorted on x: 1 2 2 2 2 3; the naive median (index 3) regresses to 1.
	tree := build(t, 4, pts(2, 0, 3, 0, 2, 1, 1, 0, 2, 1, 2, 0), func(o *Options) {
		o.ParallelDepth = -1
	})

	root, ok := tree.root.(*splitNode)
	require.True(t, ok)
	assert.Equal(t, model.AxisX, root.axis)
	assert.Equal(t, int32(2), root.value)

	left := root.left.(*leafNode)
	assert.Equal(t, 1, left.count)
}

func TestParallelAndSequentialBuildsAgree(t *testing.T) {
	rng := testutil.NewRNG(21)
	points := rng.ZipfPoints(4000, 300, 0.8)

	parallel := build(t, 3, points)
	sequential := build(t, 3, points, func(o *Options) { o.ParallelDepth = -1 })

	assert.Equal(t, sequential.Points(), parallel.Points())

	var a, b []NodeInfo
	parallel.Walk(func(n NodeInfo) bool { a = append(a, n); return true })
	sequential.Walk(func(n NodeInfo) bool { b = append(b, n); return true })
	assert.Equal(t, b, a)

	for _, q := range points {
		pa, err := parallel.NearestNeighbor(q)
		require.NoError(t, err)
		pb, err := sequential.NearestNeighbor(q)
		require.NoError(t, err)
		assert.Equal(t, pb, pa)
	}
}

func TestForkedRangesAreDisjoint(t *testing.T) {
	type span struct{ begin, end int }

	var (
		mu    sync.Mutex
		spans []span
	)
	observer := func(begin, end int) {
		mu.Lock()
		defer mu.Unlock()
		spans = append(spans, span{begin, end})
	}

	rng := testutil.NewRNG(5)
	points := rng.UniformPoints(10000, 0, 1<<20)
	build(t, 10, points, func(o *Options) { o.TaskObserver = observer })

	// Four nodes at depth two, each forking two children.
	require.Len(t, spans, 8)

	sort.Slice(spans, func(i, j int) bool { return spans[i].begin < spans[j].begin })
	assert.Equal(t, 0, spans[0].begin)
	assert.Equal(t, len(points), spans[len(spans)-1].end)
	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].end, spans[i].begin, "ranges must tile without overlap")
	}
}

func TestSequentialBuildDoesNotFork(t *testing.T) {
	calls := 0
	rng := testutil.NewRNG(5)
	build(t, 2, rng.UniformPoints(1000, 0, 1000), func(o *Options) {
		o.ParallelDepth = -1
		o.TaskObserver = func(int, int) { calls++ }
	})
	assert.Zero(t, calls)
}

func TestStats(t *testing.T) {
	tree := build(t, 2, pts(0, 0, 10, 0, 0, 10, 10, 10, 5, 5))

	s := tree.Stats()
	assert.Equal(t, s.Nodes, 2*s.Leaves-1)
	assert.LessOrEqual(t, s.MaxLeafSize, 2)
	assert.GreaterOrEqual(t, s.MaxDepth, 1)
}
