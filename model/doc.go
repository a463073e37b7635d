// Package model defines the value types shared by every allnn package.
//
// # Geometry
//
//   - Point: 2-D integer coordinate with an optional label
//   - Axis: X or Y, used to address a coordinate
//   - BoundingBox: axis-aligned min/max corner pair
//
// # Results
//
//   - Pair: a query point together with its nearest other point
//
// Points compare by coordinates only; the label is carried along for display
// and never takes part in equality.
package model
