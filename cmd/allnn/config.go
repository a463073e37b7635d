package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// envPrefix is prepended to the upper-cased flag name, with dashes turned
// into underscores, to find the environment fallback of a flag.
const envPrefix = "ALLNN_"

type config struct {
	points        string
	solution      string
	out           string
	leaf          int
	workers       int
	parallelDepth int
	tieTolerant   bool
	generate      bool
	dumpTree      bool
	random        int
	seed          int64
	logFormat     string
	logLevel      string
	metricsFile   string
	timeout       time.Duration

	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string
	minioSecure    bool
}

func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("allnn", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: allnn [flags]\n\nFinds the nearest other point for every point of a 2-D set.\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nEvery flag can also be set as %sNAME (e.g. %sLEAF=16).\n", envPrefix, envPrefix)
	}

	fs.StringVar(&cfg.points, "points", "", "point file: local path, s3://bucket/key or minio://bucket/key")
	fs.StringVar(&cfg.solution, "solution", "", "reference solution to validate against")
	fs.StringVar(&cfg.out, "out", "", "write the computed pairs to this file")
	fs.IntVar(&cfg.leaf, "leaf", 10, "maximum number of points per leaf")
	fs.IntVar(&cfg.workers, "workers", 0, "query workers (0 = GOMAXPROCS)")
	fs.IntVar(&cfg.parallelDepth, "parallel-depth", 2, "tree depth whose subtrees are built concurrently (-1 = sequential)")
	fs.BoolVar(&cfg.tieTolerant, "tie-tolerant", false, "accept a different neighbour at the same distance when validating")
	fs.BoolVar(&cfg.generate, "generate-solution", false, "compute the solution by brute force instead of with the tree")
	fs.BoolVar(&cfg.dumpTree, "dump-tree", false, "print the tree structure to stdout")
	fs.IntVar(&cfg.random, "random", 0, "generate this many random points instead of reading -points")
	fs.Int64Var(&cfg.seed, "seed", 4711, "seed for -random")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&cfg.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	fs.DurationVar(&cfg.timeout, "timeout", 0, "abort after this duration (0 = no limit)")
	fs.StringVar(&cfg.minioEndpoint, "minio-endpoint", "", "MinIO endpoint for minio:// paths")
	fs.StringVar(&cfg.minioAccessKey, "minio-access-key", "", "MinIO access key")
	fs.StringVar(&cfg.minioSecretKey, "minio-secret-key", "", "MinIO secret key")
	fs.BoolVar(&cfg.minioSecure, "minio-secure", true, "use TLS for MinIO")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var envErr error
	fs.VisitAll(func(f *flag.Flag) {
		if set[f.Name] || envErr != nil {
			return
		}
		key := envName(f.Name)
		if v := getenv(key); v != "" {
			if err := fs.Set(f.Name, v); err != nil {
				envErr = fmt.Errorf("%s: %w", key, err)
			}
		}
	})
	if envErr != nil {
		return cfg, envErr
	}

	return cfg, cfg.validate()
}

func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func (c config) validate() error {
	if c.points == "" && c.random <= 0 {
		return errors.New("either -points or -random is required")
	}
	if c.points != "" && c.random > 0 {
		return errors.New("-points and -random are mutually exclusive")
	}
	if c.logFormat != "text" && c.logFormat != "json" {
		return fmt.Errorf("invalid -log-format %q", c.logFormat)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.logLevel)); err != nil {
		return 0, fmt.Errorf("invalid -log-level %q", c.logLevel)
	}
	return l, nil
}
