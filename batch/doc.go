// Package batch answers the all-nearest-neighbour problem by fanning
// nearest-neighbour queries for a whole point set out over a fixed number of
// workers.
//
// The point set is cut into contiguous chunks, one per worker. Every worker
// writes only the output slots of its own chunk, so the result needs no
// locking and its order always matches the input order.
package batch
