// Package keys extracts canonical keys from upstream JSON snapshots.
//
// Symbols are the keys of a top-level JSON object, taken verbatim. Pool IDs
// are found anywhere in the document as "0x" followed by exactly 64 hex
// digits and are canonicalized to their raw 32 bytes; hex text never reaches
// a persisted structure.
package keys
