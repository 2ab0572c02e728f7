// Package mmap provides read-only memory-mapped access to immutable artifact files.
//
// # Usage
//
//	m, err := mmap.Open("uniswap.swap.map", mmap.AccessRandom)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // zero-copy view of the file
//
// # Invariants
//
// A mapped file must stay valid and unmodified for the lifetime of the mapping.
// Replacing an artifact underneath a running process must happen through
// rename(2), never by rewriting the file in place.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is ignored)
//
// Mapping is safe for concurrent readers. Slices returned by Bytes must not be
// used after Close.
package mmap
