package kdtree

import "errors"

var (
	// ErrNotBuilt is returned when a tree is queried before Build, or after a
	// Build with no points.
	ErrNotBuilt = errors.New("kdtree: tree has not been built or is empty")

	// ErrNoNeighbor is returned when the tree holds no point other than the
	// query itself.
	ErrNoNeighbor = errors.New("kdtree: no neighbour other than the query point")
)
