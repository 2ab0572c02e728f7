// Package blobstore provides the storage abstraction for topic map artifacts.
//
// A BlobStore holds immutable, named blobs: the per-channel ordered index
// files, the manifest, and (for remote release stores) the CURRENT pointer.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system; blobs are memory
//     mapped on Open and written with temp file + fsync + rename
//   - MemoryStore: in-process, for tests
//   - s3.Store: Amazon S3 (package blobstore/s3)
//   - minio.Store: MinIO and other S3-compatible services (package blobstore/minio)
//
// Blobs opened from a LocalStore implement Mappable, which lets the loaders
// query an index in place without copying it onto the heap.
package blobstore
