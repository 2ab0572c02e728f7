package phf

import (
	"github.com/cespare/xxhash/v2"
)

// Table is a minimal perfect hash table from string keys to uint32 values.
// Slot i holds Keys[i] and Values[i]; Seeds holds one displacement per bucket.
//
// A Table is immutable and safe for concurrent use.
type Table struct {
	Seeds  []uint32
	Keys   []string
	Values []uint32
}

const seedMul = 0x9e3779b97f4a7c15

// fmix64 is the murmur3 finalizer.
func fmix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return x
}

func bucketOf(h uint64, buckets int) int {
	return int((h >> 32) % uint64(buckets))
}

func slotOf(h uint64, seed uint32, slots int) int {
	return int(fmix64(h^(uint64(seed)*seedMul)) % uint64(slots))
}

func (t *Table) lookup(h uint64) int {
	seed := t.Seeds[bucketOf(h, len(t.Seeds))]
	return slotOf(h, seed, len(t.Keys))
}

// Get returns the value stored for key.
func (t *Table) Get(key []byte) (uint32, bool) {
	if len(t.Keys) == 0 {
		return 0, false
	}
	i := t.lookup(xxhash.Sum64(key))
	if t.Keys[i] != string(key) {
		return 0, false
	}
	return t.Values[i], true
}

// GetString returns the value stored for key.
func (t *Table) GetString(key string) (uint32, bool) {
	if len(t.Keys) == 0 {
		return 0, false
	}
	i := t.lookup(xxhash.Sum64String(key))
	if t.Keys[i] != key {
		return 0, false
	}
	return t.Values[i], true
}

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.Keys) }

// Range calls fn for every key in slot order until fn returns false.
func (t *Table) Range(fn func(key string, value uint32) bool) {
	for i, k := range t.Keys {
		if !fn(k, t.Values[i]) {
			return
		}
	}
}
