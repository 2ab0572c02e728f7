// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// It is the release store for topic map builds: the publish command uploads
// compressed artifacts under a build prefix and the fetch command downloads
// them into the local directory the loaders read.
//
// # Usage
//
//	store, err := s3.New(ctx, "topic-maps",
//	    s3.WithPrefix("prod/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// # Features
//
//   - Range reads
//   - Multipart uploads for streaming writes
//   - CRC32C integrity checks on Put
//   - Automatic pagination for listing
package s3
