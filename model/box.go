package model

import "math"

// BoundingBox is an axis-aligned box given by its min and max corners.
type BoundingBox struct {
	Min Point
	Max Point
}

// Bound returns the smallest box containing every point.
// The zero box is returned for an empty slice.
func Bound(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	b := BoundingBox{
		Min: Pt(math.MaxInt32, math.MaxInt32),
		Max: Pt(math.MinInt32, math.MinInt32),
	}
	for _, p := range points {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

// Size returns the componentwise extent Max - Min.
func (b BoundingBox) Size() Vector {
	return b.Max.Sub(b.Min)
}

// LongestAxis returns the axis with the larger extent. Ties favour X.
func (b BoundingBox) LongestAxis() Axis {
	s := b.Size()
	if s.DY > s.DX {
		return AxisY
	}
	return AxisX
}

// ClampMax returns a copy of b whose max corner on axis is v.
func (b BoundingBox) ClampMax(axis Axis, v int32) BoundingBox {
	b.Max = b.Max.With(axis, v)
	return b
}

// ClampMin returns a copy of b whose min corner on axis is v.
func (b BoundingBox) ClampMin(axis Axis, v int32) BoundingBox {
	b.Min = b.Min.With(axis, v)
	return b
}

// Contains reports whether p lies inside b, borders included.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
