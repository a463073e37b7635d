// Package validate checks a computed all-nearest-neighbour result against a
// reference solution.
//
// A result is correct when it has as many pairs as the reference and every
// pair occurs somewhere in the reference. Order is not compared, so a pair
// list produced from a permuted input validates as well.
package validate
