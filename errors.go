package allnn

import (
	"errors"
	"fmt"

	"github.com/hupe1980/allnn/kdtree"
)

var (
	// ErrEmptyInput is returned by Solve for an empty point set.
	ErrEmptyInput = errors.New("point set is empty")

	// ErrNotBuilt is returned when a tree is queried before it was built.
	ErrNotBuilt = kdtree.ErrNotBuilt

	// ErrNoNeighbor is returned when a point has no other point to pair with.
	ErrNoNeighbor = kdtree.ErrNoNeighbor
)

// ErrSolve indicates a failure during one phase of Solve.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrSolve struct {
	Phase string
	cause error
}

func (e *ErrSolve) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.cause)
}

func (e *ErrSolve) Unwrap() error { return e.cause }
