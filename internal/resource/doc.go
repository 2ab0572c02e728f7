// Package resource bounds the memory, concurrency and bandwidth of artifact
// transfers.
//
// Publish and fetch hold whole artifacts in memory while they are compressed
// or verified. A Controller caps the bytes held at once, the number of
// transfers in flight and the transfer rate:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxTransfers:       4,
//	    IOLimitBytesPerSec: 50 << 20,
//	})
//
//	if err := rc.AcquireMemory(ctx, size); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(size)
//
// A nil *Controller imposes no limits.
package resource
