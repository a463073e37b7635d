package model

import (
	"fmt"
	"math"
)

// Axis selects one coordinate of a Point.
type Axis uint8

const (
	// AxisX addresses the X coordinate.
	AxisX Axis = 0
	// AxisY addresses the Y coordinate.
	AxisY Axis = 1
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Point is an immutable 2-D integer coordinate.
type Point struct {
	X     int32
	Y     int32
	Label string
}

// Pt is shorthand for an unlabeled Point.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Coord returns the coordinate on the given axis.
func (p Point) Coord(axis Axis) int32 {
	if axis == AxisX {
		return p.X
	}
	return p.Y
}

// With returns a copy of p with the coordinate on axis replaced by v.
func (p Point) With(axis Axis, v int32) Point {
	if axis == AxisX {
		p.X = v
	} else {
		p.Y = v
	}
	return p
}

// Equal reports whether p and o share both coordinates. Labels are ignored.
func (p Point) Equal(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

// Vector is the difference of two points. Components are widened to int64 so
// subtracting int32 extremes cannot overflow.
type Vector struct {
	DX int64
	DY int64
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{DX: int64(p.X) - int64(o.X), DY: int64(p.Y) - int64(o.Y)}
}

// SquaredMagnitude returns the squared Euclidean length of v.
func (v Vector) SquaredMagnitude() float64 {
	dx, dy := float64(v.DX), float64(v.DY)
	return dx*dx + dy*dy
}

// Magnitude returns the Euclidean length of v.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.SquaredMagnitude())
}

// SquaredDistance returns the squared Euclidean distance between p and o.
func (p Point) SquaredDistance(o Point) float64 {
	return p.Sub(o).SquaredMagnitude()
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point) DistanceTo(o Point) float64 {
	return p.Sub(o).Magnitude()
}

// String formats the point as "(x,y)" or "label(x,y)".
func (p Point) String() string {
	if p.Label != "" {
		return fmt.Sprintf("%s(%d,%d)", p.Label, p.X, p.Y)
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
