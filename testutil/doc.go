// Package testutil provides testing utilities for allnn.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random point sets and computing exact
// nearest neighbours by brute force.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000, 50, 750)
//	dups := rng.ZipfPoints(1000, 16, 1.2) // heavy duplicates
//
// # Exact Search (Ground Truth)
//
//	d := testutil.BruteForceDistance(pts, i)
package testutil
