package model

import "fmt"

// Pair is one answer of the all-nearest-neighbour problem.
type Pair struct {
	Query   Point
	Nearest Point
}

// Equal compares both points by value.
func (p Pair) Equal(o Pair) bool {
	return p.Query.Equal(o.Query) && p.Nearest.Equal(o.Nearest)
}

// Distance returns the distance between the query and its neighbour.
func (p Pair) Distance() float64 {
	return p.Query.DistanceTo(p.Nearest)
}

// Key returns a comparable key that ignores labels.
func (p Pair) Key() PairKey {
	return PairKey{QX: p.Query.X, QY: p.Query.Y, NX: p.Nearest.X, NY: p.Nearest.Y}
}

// String formats the pair as "(qx,qy)->(nx,ny)".
func (p Pair) String() string {
	return fmt.Sprintf("%s->%s", p.Query, p.Nearest)
}

// PairKey is the coordinate-only identity of a Pair, usable as a map key.
type PairKey struct {
	QX, QY int32
	NX, NY int32
}
