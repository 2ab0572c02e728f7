package phf

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// KeysPerBucket is the average bucket load used by Build.
const KeysPerBucket = 4

// maxSeed bounds the displacement search for one bucket.
const maxSeed = 1 << 24

var (
	// ErrDuplicateKey is returned when a key is given twice.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrLengthMismatch is returned when keys and values differ in length.
	ErrLengthMismatch = errors.New("keys and values differ in length")

	// ErrNoSeed is returned when no displacement places a bucket. It only
	// happens for keys whose 64-bit hashes collide.
	ErrNoSeed = errors.New("no displacement found")
)

type bucket struct {
	index  int
	hashes []uint64
	keys   []int
}

// Build constructs a minimal perfect hash table over keys. Values[i] is
// returned for keys[i]. The result depends only on the key/value pairs, not
// on their order.
func Build(keys []string, values []uint32) (*Table, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys, %d values", ErrLengthMismatch, len(keys), len(values))
	}
	n := len(keys)
	if n == 0 {
		return &Table{}, nil
	}

	nb := max(1, (n+KeysPerBucket-1)/KeysPerBucket)
	buckets := make([]bucket, nb)
	for i := range buckets {
		buckets[i].index = i
	}
	seen := make(map[string]struct{}, n)
	for i, k := range keys {
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
		h := xxhash.Sum64String(k)
		b := &buckets[bucketOf(h, nb)]
		b.hashes = append(b.hashes, h)
		b.keys = append(b.keys, i)
	}

	// Largest buckets first while the table is still sparse; ties by index
	// keep the layout deterministic.
	order := slices.Clone(buckets)
	slices.SortFunc(order, func(a, b bucket) int {
		if c := cmp.Compare(len(b.hashes), len(a.hashes)); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	t := &Table{
		Seeds:  make([]uint32, nb),
		Keys:   make([]string, n),
		Values: make([]uint32, n),
	}
	used := make([]bool, n)
	slots := make([]int, 0, KeysPerBucket*4)

	for _, b := range order {
		if len(b.hashes) == 0 {
			continue
		}
		seed, err := place(b, used, n, slots)
		if err != nil {
			return nil, fmt.Errorf("bucket %d (%d keys): %w", b.index, len(b.hashes), err)
		}
		t.Seeds[b.index] = seed
		for j, h := range b.hashes {
			s := slotOf(h, seed, n)
			used[s] = true
			t.Keys[s] = keys[b.keys[j]]
			t.Values[s] = values[b.keys[j]]
		}
	}
	return t, nil
}

// place finds the smallest seed sending every hash of b to a distinct free slot.
func place(b bucket, used []bool, n int, scratch []int) (uint32, error) {
	for seed := uint32(0); seed < maxSeed; seed++ {
		scratch = scratch[:0]
		ok := true
		for _, h := range b.hashes {
			s := slotOf(h, seed, n)
			if used[s] || slices.Contains(scratch, s) {
				ok = false
				break
			}
			scratch = append(scratch, s)
		}
		if ok {
			return seed, nil
		}
	}
	return 0, ErrNoSeed
}
