// Package alloc assigns dense, deterministic IDs to canonical keys.
//
// Local IDs are 0..N-1 in byte-lexicographic key order, so the same key set
// always yields the same assignment regardless of input order. Global topic
// IDs are the local IDs offset into a source's reserved interval.
package alloc
