// Package fs provides filesystem abstractions for testability and fault injection.
//
//   - [FileSystem] abstracts the handful of os calls the build pipeline needs
//   - [LocalFS] is the production implementation
//   - [FaultyFS] wraps another FileSystem and injects write, sync, close and rename errors
//   - [AtomicFile] writes under a temporary name and publishes by rename
//
// Artifacts are immutable once published: a new build replaces a file by
// renaming a fully written and synced temporary file over it, never by
// rewriting it in place. Readers that memory-map the old file keep seeing
// the old inode.
//
// No context.Context parameters: local filesystem calls are not
// interruptible at the syscall level. Remote storage lives in blobstore.
package fs
