// Package allnn solves the all-nearest-neighbour problem for 2-D integer
// points.
//
// For every point of a set, allnn finds the closest other point of the same
// set. It builds a static kd-tree over the points (the upper levels in
// parallel) and then answers one nearest-neighbour query per point on a pool
// of workers.
//
// # Quick Start
//
//	solver := allnn.New(allnn.WithLeafCapacity(10))
//	res, err := solver.Solve(ctx, points)
//	for _, p := range res.Pairs {
//	    fmt.Println(p.Query, "->", p.Nearest)
//	}
//
// Pairs are returned in input order. A point that occurs several times in the
// input is its own nearest neighbour at distance 0.
//
// # Validation
//
// A result can be compared with a reference solution:
//
//	report, err := solver.Validate(ctx, res.Pairs, reference)
//	if !report.OK {
//	    idx, _ := report.FirstMismatch()
//	    ...
//	}
//
// # Observability
//
// Logging uses log/slog through Logger; metrics are reported to a
// MetricsCollector (see BasicMetricsCollector for an in-memory one).
//
// The building blocks live in their own packages: kdtree (tree build and
// search), batch (concurrent query dispatch), validate (result checking),
// pointio (file formats) and blobstore (local, S3 and MinIO sources).
package allnn
