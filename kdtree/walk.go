package kdtree

import "github.com/hupe1980/allnn/model"

// NodeInfo is a read-only view of one tree node.
type NodeInfo struct {
	Depth int
	Leaf  bool

	// Leaf nodes: the range [Begin, Begin+Count) of Points().
	Begin int
	Count int

	// Internal nodes: the split plane.
	Axis  model.Axis
	Value int32

	// Box is the region owned by the node.
	Box model.BoundingBox
}

// Walk visits every node in pre-order. Returning false from fn skips the
// children of the visited node.
func (t *Tree) Walk(fn func(NodeInfo) bool) {
	if t.root == nil {
		return
	}
	walk(t.root, t.box, 0, fn)
}

func walk(n node, box model.BoundingBox, depth int, fn func(NodeInfo) bool) {
	switch n := n.(type) {
	case *leafNode:
		fn(NodeInfo{Depth: depth, Leaf: true, Begin: n.begin, Count: n.count, Box: box})
	case *splitNode:
		if !fn(NodeInfo{Depth: depth, Axis: n.axis, Value: n.value, Box: box}) {
			return
		}
		walk(n.left, box.ClampMax(n.axis, n.value), depth+1, fn)
		walk(n.right, box.ClampMin(n.axis, n.value), depth+1, fn)
	}
}

// Stats summarises the shape of a built tree.
type Stats struct {
	Nodes       int
	Leaves      int
	MaxDepth    int
	MinLeafSize int
	MaxLeafSize int
}

// Stats returns shape statistics. The zero value is returned for an unbuilt
// tree.
func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(info NodeInfo) bool {
		s.Nodes++
		s.MaxDepth = max(s.MaxDepth, info.Depth)
		if info.Leaf {
			if s.Leaves == 0 || info.Count < s.MinLeafSize {
				s.MinLeafSize = info.Count
			}
			s.Leaves++
			s.MaxLeafSize = max(s.MaxLeafSize, info.Count)
		}
		return true
	})
	return s
}
