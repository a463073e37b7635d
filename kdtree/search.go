package kdtree

import (
	"math"

	"github.com/hupe1980/allnn/model"
)

// Neighbor is a search result.
type Neighbor struct {
	Point    model.Point
	Distance float64
}

// NearestNeighbor returns the stored point closest to q, ignoring the stored
// copy of q itself. Further copies of q's value are valid answers.
//
// It returns ErrNotBuilt for an unbuilt tree and ErrNoNeighbor when no other
// point exists.
func (t *Tree) NearestNeighbor(q model.Point) (model.Point, error) {
	nn, err := t.Nearest(q)
	if err != nil {
		return model.Point{}, err
	}
	return nn.Point, nil
}

// Nearest is like NearestNeighbor but also reports the distance.
func (t *Tree) Nearest(q model.Point) (Neighbor, error) {
	if t.root == nil || len(t.points) == 0 {
		return Neighbor{}, ErrNotBuilt
	}

	s := searchState{
		query:  q,
		bestSq: math.Inf(1),
	}
	t.search(t.root, &s)

	if !s.found {
		return Neighbor{}, ErrNoNeighbor
	}
	return Neighbor{Point: s.best, Distance: math.Sqrt(s.bestSq)}, nil
}

type searchState struct {
	query   model.Point
	best    model.Point
	bestSq  float64
	found   bool
	skipped bool // the query's own stored copy has been passed over
}

func (t *Tree) search(n node, s *searchState) {
	switch n := n.(type) {
	case *leafNode:
		for _, p := range t.points[n.begin : n.begin+n.count] {
			if !s.skipped && p.Equal(s.query) {
				s.skipped = true
				continue
			}
			if d := p.SquaredDistance(s.query); d < s.bestSq {
				s.bestSq = d
				s.best = p
				s.found = true
			}
		}

	case *splitNode:
		c := s.query.Coord(n.axis)
		near, far := n.left, n.right
		if c >= n.value {
			near, far = far, near
		}

		t.search(near, s)

		// Visit the far side only if the best circle still crosses the plane.
		plane := float64(int64(c) - int64(n.value))
		if plane*plane <= s.bestSq {
			t.search(far, s)
		}
	}
}
