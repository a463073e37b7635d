// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "points/")
//	pts, err := pointio.LoadPoints(ctx, store, "clustered.txt.gz")
package s3
