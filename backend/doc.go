// Package backend resolves channel keys to local IDs for a single source.
//
// Two backends exist:
//
//   - PerfectHash serves tables compiled into the program. It needs no
//     artifact and is usable immediately.
//   - Ordered serves {source}.{channel}.map artifacts. Its state is loaded
//     once from a blobstore and published atomically; until then every key
//     resolves to no mapping.
//
// Backends never return errors from Resolve. An unknown channel or key is
// reported as a miss.
package backend
