package kdtree

import "github.com/hupe1980/allnn/model"

// node is either a *leafNode or a *splitNode.
type node interface {
	isNode()
}

// leafNode owns the range [begin, begin+count) of the tree's point storage.
type leafNode struct {
	begin int
	count int
}

// splitNode partitions its range at value on axis. Points with a coordinate
// below value live in left, all others in right.
type splitNode struct {
	axis  model.Axis
	value int32
	left  node
	right node
}

func (*leafNode) isNode()  {}
func (*splitNode) isNode() {}
