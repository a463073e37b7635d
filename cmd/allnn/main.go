// Command allnn computes the nearest neighbour of every point of a 2-D point
// set and optionally validates the result against a reference solution.
//
//	allnn -points points.txt.zst -solution solution.txt.zst -leaf 10
//	allnn -random 100000 -out pairs.txt -dump-tree
//	allnn -points s3://bucket/points.txt.gz -out s3://bucket/pairs.txt.gz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/allnn"
	"github.com/hupe1980/allnn/model"
	"github.com/hupe1980/allnn/pointio"
	"github.com/hupe1980/allnn/validate"
)

// errValidation marks a run whose result did not match the reference.
var errValidation = errors.New("solution does not match reference")

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "allnn:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "allnn:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config, w io.Writer) *allnn.Logger {
	level, _ := cfg.level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.logFormat == "json" {
		return allnn.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return allnn.NewLogger(slog.NewTextHandler(w, opts))
}

func run(ctx context.Context, cfg config, stdout, stderr io.Writer) (err error) {
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	logger := newLogger(cfg, stderr)

	var metrics allnn.MetricsCollector = allnn.NoopMetricsCollector{}
	if cfg.metricsFile != "" {
		prom := newPromCollector()
		metrics = prom
		defer func() {
			if werr := prom.WriteTo(cfg.metricsFile); werr != nil && err == nil {
				err = fmt.Errorf("write metrics: %w", werr)
			}
		}()
	}

	solverOpts := []allnn.Option{
		allnn.WithLeafCapacity(cfg.leaf),
		allnn.WithWorkers(cfg.workers),
		allnn.WithParallelDepth(cfg.parallelDepth),
		allnn.WithLogger(logger),
		allnn.WithMetricsCollector(metrics),
	}
	if cfg.tieTolerant {
		solverOpts = append(solverOpts, allnn.WithTieTolerantValidation())
	}
	solver := allnn.New(solverOpts...)
	st := newStores(cfg)

	points, err := loadPoints(ctx, cfg, st, logger)
	if err != nil {
		return err
	}

	var pairs []model.Pair
	if cfg.generate {
		start := time.Now()
		pairs, err = validate.BruteForce(points)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "brute force solution computed",
			"points", len(points),
			"duration", time.Since(start),
		)
		if cfg.dumpTree {
			if err := dumpTree(stdout, solver.Build(ctx, points)); err != nil {
				return err
			}
		}
	} else {
		res, err := solver.Solve(ctx, points)
		if err != nil {
			return err
		}
		pairs = res.Pairs
		logger.InfoContext(ctx, "solution computed",
			"points", len(points),
			"build", res.BuildDuration,
			"query", res.QueryDuration,
		)
		if cfg.dumpTree {
			if err := dumpTree(stdout, res.Tree); err != nil {
				return err
			}
		}
	}

	if cfg.out != "" {
		store, name, err := st.resolve(ctx, cfg.out)
		if err != nil {
			return err
		}
		if err := pointio.SavePairs(ctx, store, name, pairs); err != nil {
			return err
		}
		logger.WithSource(cfg.out).InfoContext(ctx, "solution written", "pairs", len(pairs))
	}

	if cfg.solution == "" {
		return nil
	}

	store, name, err := st.resolve(ctx, cfg.solution)
	if err != nil {
		return err
	}
	reference, err := pointio.LoadPairs(ctx, store, name)
	if err != nil {
		return err
	}

	report, err := solver.Validate(ctx, pairs, reference)
	if err != nil {
		return err
	}
	if report.OK {
		fmt.Fprintln(stdout, "Solution is valid")
		return nil
	}

	if report.LengthMismatch {
		fmt.Fprintf(stdout, "Solution is invalid: %d pairs, reference has %d\n", report.ResultLen, report.ReferenceLen)
	} else {
		idx, _ := report.FirstMismatch()
		fmt.Fprintf(stdout, "Solution is invalid: %d mismatching pairs, first at %d: %s\n",
			report.MismatchCount(), idx, pairs[idx])
	}
	return errValidation
}

func loadPoints(ctx context.Context, cfg config, st *stores, logger *allnn.Logger) ([]model.Point, error) {
	if cfg.random > 0 {
		points := randomPoints(cfg.random, cfg.seed)
		logger.InfoContext(ctx, "random points generated", "count", len(points), "seed", cfg.seed)
		return points, nil
	}

	store, name, err := st.resolve(ctx, cfg.points)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	points, err := pointio.LoadPoints(ctx, store, name)
	if err != nil {
		return nil, err
	}
	logger.WithSource(cfg.points).InfoContext(ctx, "points loaded",
		"count", len(points),
		"duration", time.Since(start),
	)
	return points, nil
}
