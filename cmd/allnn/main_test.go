package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/allnn/blobstore"
	"github.com/hupe1980/allnn/model"
	"github.com/hupe1980/allnn/pointio"
	"github.com/hupe1980/allnn/testutil"
	"github.com/hupe1980/allnn/validate"
)

func noEnv(string) string { return "" }

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]string{"-points", "p.txt", "-leaf", "4", "-log-format", "json"}, noEnv, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "p.txt", cfg.points)
	assert.Equal(t, 4, cfg.leaf)
	assert.Equal(t, 2, cfg.parallelDepth)
	assert.Equal(t, "json", cfg.logFormat)
	assert.True(t, cfg.minioSecure)
}

func TestParseConfigEnvFallback(t *testing.T) {
	env := map[string]string{
		"ALLNN_POINTS":         "env.txt",
		"ALLNN_LEAF":           "16",
		"ALLNN_PARALLEL_DEPTH": "-1",
		"ALLNN_MINIO_SECURE":   "false",
	}
	getenv := func(k string) string { return env[k] }

	cfg, err := parseConfig([]string{"-leaf", "8"}, getenv, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "env.txt", cfg.points)
	assert.Equal(t, 8, cfg.leaf, "flags win over the environment")
	assert.Equal(t, -1, cfg.parallelDepth)
	assert.False(t, cfg.minioSecure)

	env["ALLNN_WORKERS"] = "many"
	_, err = parseConfig(nil, getenv, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALLNN_WORKERS")
}

func TestParseConfigErrors(t *testing.T) {
	for name, args := range map[string][]string{
		"no input":     {},
		"both inputs":  {"-points", "p.txt", "-random", "10"},
		"log format":   {"-random", "10", "-log-format", "xml"},
		"log level":    {"-random", "10", "-log-level", "loud"},
		"unknown flag": {"-nope"},
		"extra args":   {"-random", "10", "extra"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(args, noEnv, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := parseLocation("s3://bucket/dir/points.txt.gz")
	require.NoError(t, err)
	assert.Equal(t, location{scheme: "s3", bucket: "bucket", name: "dir/points.txt.gz"}, loc)

	loc, err = parseLocation("minio://b/k")
	require.NoError(t, err)
	assert.Equal(t, "minio", loc.scheme)

	loc, err = parseLocation("/tmp/points.txt")
	require.NoError(t, err)
	assert.Equal(t, location{name: "/tmp/points.txt"}, loc)

	_, err = parseLocation("gs://bucket/key")
	assert.Error(t, err)
	_, err = parseLocation("s3://bucket")
	assert.Error(t, err)
}

func TestResolveMinioNeedsEndpoint(t *testing.T) {
	_, _, err := newStores(config{}).resolve(context.Background(), "minio://bucket/key")
	assert.ErrorContains(t, err, "-minio-endpoint")
}

func writePoints(t *testing.T, path string, points []model.Point) {
	t.Helper()
	require.NoError(t, pointio.SavePoints(context.Background(), blobstore.NewLocalStore(""), path, points))
}

func TestRunValidatesSolution(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	points := testutil.NewRNG(3).UniformPoints(500, 0, 200)

	pointsPath := filepath.Join(dir, "points.txt.zst")
	writePoints(t, pointsPath, points)

	solutionPath := filepath.Join(dir, "solution.txt.gz")
	cfg := config{
		points:        pointsPath,
		out:           solutionPath,
		leaf:          10,
		parallelDepth: 2,
		generate:      true,
		logFormat:     "text",
		logLevel:      "info",
	}
	require.NoError(t, run(ctx, cfg, io.Discard, io.Discard))

	reference, err := pointio.LoadPairs(ctx, blobstore.NewLocalStore(""), solutionPath)
	require.NoError(t, err)
	require.Len(t, reference, len(points))

	var stdout, stderr bytes.Buffer
	cfg.generate = false
	cfg.out = ""
	cfg.solution = solutionPath
	cfg.tieTolerant = true
	cfg.metricsFile = filepath.Join(dir, "allnn.prom")
	require.NoError(t, run(ctx, cfg, &stdout, &stderr))

	assert.Equal(t, "Solution is valid\n", stdout.String())
	assert.Contains(t, stderr.String(), "points loaded")

	prom, err := os.ReadFile(cfg.metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `allnn_queries_total{status="success"} 500`)
	assert.Contains(t, string(prom), `allnn_validations_total{result="pass"} 1`)
	assert.Contains(t, string(prom), "allnn_points 500")
}

func TestRunReportsInvalidSolution(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	points := []model.Point{model.Pt(0, 0), model.Pt(1, 0), model.Pt(9, 0)}
	pointsPath := filepath.Join(dir, "points.txt")
	writePoints(t, pointsPath, points)

	reference, err := validate.BruteForce(points)
	require.NoError(t, err)
	reference[2].Nearest = model.Pt(0, 0)
	solutionPath := filepath.Join(dir, "solution.txt")
	require.NoError(t, pointio.SavePairs(ctx, blobstore.NewLocalStore(""), solutionPath, reference))

	var stdout bytes.Buffer
	cfg := config{points: pointsPath, solution: solutionPath, leaf: 1, logFormat: "json", logLevel: "warn"}
	err = run(ctx, cfg, &stdout, io.Discard)
	assert.ErrorIs(t, err, errValidation)
	assert.True(t, strings.HasPrefix(stdout.String(), "Solution is invalid: 1 mismatching pairs, first at 2"))
}

func TestRunRandomWithDump(t *testing.T) {
	var stdout bytes.Buffer
	cfg := config{random: 200, seed: 1, leaf: 8, parallelDepth: 2, dumpTree: true, logFormat: "text", logLevel: "error"}
	require.NoError(t, run(context.Background(), cfg, &stdout, io.Discard))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "# points=200 leaf_capacity=8"))
	assert.Contains(t, out, "split ")
	assert.Contains(t, out, "  leaf [")
}

func TestRunMissingInput(t *testing.T) {
	cfg := config{points: filepath.Join(t.TempDir(), "missing.txt"), leaf: 1, logFormat: "text", logLevel: "info"}
	err := run(context.Background(), cfg, io.Discard, io.Discard)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRandomPoints(t *testing.T) {
	a := randomPoints(1000, 7)
	require.Len(t, a, 1000)
	for _, p := range a {
		assert.GreaterOrEqual(t, p.X, int32(randomMin))
		assert.LessOrEqual(t, p.X, int32(randomMax))
		assert.GreaterOrEqual(t, p.Y, int32(randomMin))
		assert.LessOrEqual(t, p.Y, int32(randomMax))
	}

	assert.Equal(t, a, randomPoints(1000, 7))
	assert.NotEqual(t, a, randomPoints(1000, 8))
	assert.Empty(t, randomPoints(0, 7))
}
