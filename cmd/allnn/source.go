package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/allnn/blobstore"
	"github.com/hupe1980/allnn/blobstore/minio"
	"github.com/hupe1980/allnn/blobstore/s3"
)

// location is a parsed -points, -solution or -out argument.
type location struct {
	scheme string // "", "s3" or "minio"
	bucket string
	name   string
}

func parseLocation(uri string) (location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return location{name: uri}, nil
	}
	switch scheme {
	case "s3", "minio":
	default:
		return location{}, fmt.Errorf("unsupported scheme %q in %s", scheme, uri)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return location{}, fmt.Errorf("%s: expected %s://bucket/key", uri, scheme)
	}
	return location{scheme: scheme, bucket: bucket, name: key}, nil
}

// stores hands out one Store per scheme and bucket.
type stores struct {
	cfg   config
	local *blobstore.LocalStore
	cache map[string]blobstore.Store
}

func newStores(cfg config) *stores {
	return &stores{
		cfg:   cfg,
		local: blobstore.NewLocalStore(""),
		cache: make(map[string]blobstore.Store),
	}
}

func (s *stores) resolve(ctx context.Context, uri string) (blobstore.Store, string, error) {
	loc, err := parseLocation(uri)
	if err != nil {
		return nil, "", err
	}
	if loc.scheme == "" {
		return s.local, loc.name, nil
	}

	cacheKey := loc.scheme + "://" + loc.bucket
	if st, ok := s.cache[cacheKey]; ok {
		return st, loc.name, nil
	}

	var st blobstore.Store
	switch loc.scheme {
	case "s3":
		st, err = s3.New(ctx, loc.bucket, "")
	case "minio":
		if s.cfg.minioEndpoint == "" {
			return nil, "", errors.New("minio:// paths need -minio-endpoint")
		}
		st, err = minio.Dial(s.cfg.minioEndpoint, s.cfg.minioAccessKey, s.cfg.minioSecretKey, s.cfg.minioSecure, loc.bucket, "")
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", cacheKey, err)
	}

	s.cache[cacheKey] = st
	return st, loc.name, nil
}
