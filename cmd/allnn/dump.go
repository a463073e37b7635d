package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/allnn/kdtree"
)

// dumpTree prints one line per node, indented by depth.
func dumpTree(w io.Writer, tree *kdtree.Tree) error {
	bw := bufio.NewWriter(w)

	st := tree.Stats()
	fmt.Fprintf(bw, "# points=%d leaf_capacity=%d nodes=%d leaves=%d max_depth=%d\n",
		tree.Len(), tree.LeafCapacity(), st.Nodes, st.Leaves, st.MaxDepth)

	tree.Walk(func(n kdtree.NodeInfo) bool {
		indent := strings.Repeat("  ", n.Depth)
		if n.Leaf {
			fmt.Fprintf(bw, "%sleaf [%d,%d) %v..%v\n", indent, n.Begin, n.Begin+n.Count, n.Box.Min, n.Box.Max)
		} else {
			fmt.Fprintf(bw, "%ssplit %s=%d %v..%v\n", indent, n.Axis, n.Value, n.Box.Min, n.Box.Max)
		}
		return true
	})

	return bw.Flush()
}
