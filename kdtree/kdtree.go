package kdtree

import (
	"log/slog"
	"slices"
	"time"

	"github.com/hupe1980/allnn/model"
)

// DefaultParallelDepth is the recursion depth whose two child subtrees are
// built on separate goroutines.
const DefaultParallelDepth = 2

// Options represents the options for configuring a Tree.
type Options struct {
	// ParallelDepth is the depth at which the build forks both children onto
	// their own goroutines and joins them. A negative value builds
	// sequentially.
	ParallelDepth int

	// Logger receives debug output about builds. Nil discards it.
	Logger *slog.Logger

	// TaskObserver, if set, is called with the index range of every forked
	// subtree build before it starts. Calls may arrive concurrently.
	TaskObserver func(begin, end int)
}

// DefaultOptions contains the default configuration for a Tree.
var DefaultOptions = Options{
	ParallelDepth: DefaultParallelDepth,
}

// Tree is a static 2-D kd-tree.
//
// Build must not run concurrently with any other method. Once Build has
// returned, all query methods are safe for concurrent use.
type Tree struct {
	points   []model.Point
	root     node
	box      model.BoundingBox
	capacity int
	opts     Options
	logger   *slog.Logger
}

// New creates an empty, unbuilt tree.
func New(optFns ...func(o *Options)) *Tree {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Tree{
		opts:   opts,
		logger: logger,
	}
}

// Build copies points into the tree and constructs the node hierarchy.
// A leafCapacity below 1 is treated as 1. Building from an empty slice leaves
// the tree unbuilt. Any previously built tree is discarded.
func (t *Tree) Build(leafCapacity int, points []model.Point) {
	t.capacity = max(leafCapacity, 1)
	t.root = nil
	t.points = nil
	t.box = model.BoundingBox{}

	if len(points) == 0 {
		t.logger.Debug("empty point set, tree left unbuilt")
		return
	}

	start := time.Now()

	t.box = model.Bound(points)
	t.points = slices.Clone(points)

	b := &builder{
		points:    t.points,
		capacity:  t.capacity,
		forkDepth: t.opts.ParallelDepth,
		observer:  t.opts.TaskObserver,
	}
	t.root = b.build(0, len(t.points), t.box, 0)

	t.logger.Debug("kdtree built",
		"points", len(t.points),
		"leaf_capacity", t.capacity,
		"parallel_depth", t.opts.ParallelDepth,
		"elapsed", time.Since(start),
	)
}

// Built reports whether the tree holds at least one point.
func (t *Tree) Built() bool {
	return t.root != nil
}

// Len returns the number of stored points.
func (t *Tree) Len() int {
	return len(t.points)
}

// LeafCapacity returns the clamped leaf capacity of the last Build.
func (t *Tree) LeafCapacity() int {
	return t.capacity
}

// BoundingBox returns the box enclosing all stored points.
func (t *Tree) BoundingBox() model.BoundingBox {
	return t.box
}

// Points returns a copy of the stored points in tree order.
func (t *Tree) Points() []model.Point {
	return slices.Clone(t.points)
}
