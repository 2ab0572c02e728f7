// Package phf implements compile-time minimal perfect hash tables.
//
// Tables are built with the hash-and-displace (CHD) scheme over 64-bit
// xxhash: keys are split into buckets by the high hash bits, and every bucket
// gets a displacement seed that sends all of its keys to free slots. A lookup
// is one hash, one seed load and one key comparison; there is no probing.
//
// Tables are meant to be emitted as Go source by Generate and compiled into
// the program, so they need neither a file nor a load step at runtime.
package phf
