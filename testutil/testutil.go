package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/allnn/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformPoints generates num points with both coordinates uniform in
// [lo, hi].
func (r *RNG) UniformPoints(num int, lo, hi int32) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := int64(hi) - int64(lo) + 1
	points := make([]model.Point, num)
	for i := range points {
		points[i] = model.Pt(
			int32(int64(lo)+r.rand.Int63n(span)),
			int32(int64(lo)+r.rand.Int63n(span)),
		)
	}
	return points
}

// ClusteredPoints generates points around random centres inside [lo, hi].
// spread is the standard deviation of the Gaussian noise.
func (r *RNG) ClusteredPoints(num, clusters int, spread float64, lo, hi int32) []model.Point {
	centres := r.UniformPoints(clusters, lo, hi)

	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]model.Point, num)
	for i := range points {
		c := centres[i%clusters]
		points[i] = model.Pt(
			clampInt32(float64(c.X)+r.rand.NormFloat64()*spread),
			clampInt32(float64(c.Y)+r.rand.NormFloat64()*spread),
		)
	}
	return points
}

// ZipfPoints draws num points from a palette of distinct values with a
// Zipfian frequency, so a few values repeat many times.
func (r *RNG) ZipfPoints(num, palette int, s float64) []model.Point {
	values := r.UniformPoints(palette, -1000, 1000)

	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]model.Point, num)
	for i := range points {
		points[i] = values[r.zipfLocked(palette, s)]
	}
	return points
}

// GridPoints returns a w*h lattice starting at the origin with the given step.
// Every point has up to four neighbours at the same distance.
func GridPoints(w, h int, step int32) []model.Point {
	points := make([]model.Point, 0, w*h)
	for y := range h {
		for x := range w {
			points = append(points, model.Pt(int32(x)*step, int32(y)*step))
		}
	}
	return points
}

// Shuffle returns a permuted copy of points.
func (r *RNG) Shuffle(points []model.Point) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Point, len(points))
	for i, j := range r.rand.Perm(len(points)) {
		out[i] = points[j]
	}
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Compute normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Sample from uniform and use inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// BruteForceDistance returns the distance from points[i] to the closest other
// entry of points, or +Inf if there is none.
func BruteForceDistance(points []model.Point, i int) float64 {
	return math.Sqrt(BruteForceSquaredDistance(points, i))
}

// BruteForceSquaredDistance is BruteForceDistance without the square root.
func BruteForceSquaredDistance(points []model.Point, i int) float64 {
	best := math.Inf(1)
	for j, p := range points {
		if j == i {
			continue
		}
		if d := points[i].SquaredDistance(p); d < best {
			best = d
		}
	}
	return best
}

func clampInt32(v float64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(math.Round(v))
	}
}
