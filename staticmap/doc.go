// Package staticmap builds and reads immutable ordered key→ID indexes.
//
// The on-disk form is a vellum finite state transducer. Keys must be inserted
// in strictly increasing byte order; the resulting bytes are a pure function
// of the entry set, so rebuilding from the same input is byte-identical.
//
// A Map is read-only after Load and safe for concurrent use. Lookups do not
// allocate: each goroutine borrows a pooled vellum.Reader for the duration of
// one Get.
package staticmap
