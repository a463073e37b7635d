package main

import (
	"math/rand/v2"

	"github.com/hupe1980/allnn/model"
)

// Random points are drawn from [randomMin, randomMax] on both axes.
const (
	randomMin = 50
	randomMax = 750
)

// randomPoints returns n uniformly distributed points. The same seed always
// yields the same points.
func randomPoints(n int, seed int64) []model.Point {
	r := rand.New(rand.NewPCG(uint64(seed), 0))

	points := make([]model.Point, n)
	for i := range points {
		points[i] = model.Pt(
			randomMin+r.Int32N(randomMax-randomMin+1),
			randomMin+r.Int32N(randomMax-randomMin+1),
		)
	}
	return points
}
