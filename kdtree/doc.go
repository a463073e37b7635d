// Package kdtree implements a static 2-D kd-tree for nearest-neighbour search.
//
// The tree is bulk-built once from an unordered point set and is read-only
// afterwards, so any number of goroutines may query it concurrently.
//
// # Build
//
// Every internal node splits its index range at the median of the axis with
// the larger bounding-box extent. Points equal to the split value always go to
// the right child. The two subtrees found at a fixed shallow depth are built
// in parallel and joined before their parent returns.
//
//	tree := kdtree.New()
//	tree.Build(10, points)
//
// # Search
//
// NearestNeighbor runs a branch-and-bound descent and skips the stored copy of
// the query point itself:
//
//	nn, err := tree.NearestNeighbor(points[0])
package kdtree
