package alloc

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/topicmap/model"
)

// Entry maps one canonical key to a topic ID.
type Entry struct {
	Key []byte
	ID  model.TopicID
}

// Assignment is the sorted, deduplicated key set of one source channel.
// The local ID of a key is its position in Keys.
type Assignment struct {
	keys [][]byte
}

// Assign deduplicates and sorts keys in byte order and assigns local IDs
// 0..N-1. The input slice is not modified; key bytes are shared.
func Assign(keys [][]byte) *Assignment {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, bytes.Compare)
	sorted = slices.CompactFunc(sorted, bytes.Equal)
	return &Assignment{keys: sorted}
}

// Len returns the number of distinct keys.
func (a *Assignment) Len() int { return len(a.keys) }

// Keys returns the keys in local ID order. The slice must not be modified.
func (a *Assignment) Keys() [][]byte { return a.keys }

// Local returns the local ID of key, or false when key was not assigned.
func (a *Assignment) Local(key []byte) (model.LocalID, bool) {
	i, ok := slices.BinarySearchFunc(a.keys, key, bytes.Compare)
	if !ok {
		return 0, false
	}
	return model.LocalID(i), true //nolint:gosec // bounded by interval size on Offset
}

// Locals returns entries carrying local IDs (interval base 0).
// It fails when the key count does not fit the uint32 ID space.
func (a *Assignment) Locals() ([]Entry, error) {
	return a.Offset(model.NewInterval(0, ^uint32(0)))
}

// Offset returns the entries with global IDs in iv, in key order.
// It fails with an *OverflowError when the key count exceeds iv.Size.
func (a *Assignment) Offset(iv model.Interval) ([]Entry, error) {
	if uint64(len(a.keys)) > uint64(iv.Size) {
		return nil, &OverflowError{Count: len(a.keys), Interval: iv}
	}
	out := make([]Entry, len(a.keys))
	for i, k := range a.keys {
		id, _ := iv.Global(model.LocalID(i)) //nolint:gosec // checked above
		out[i] = Entry{Key: k, ID: id}
	}
	return out, nil
}

// OffsetSource is Offset with the source name recorded in overflow errors.
func (a *Assignment) OffsetSource(name string, iv model.Interval) ([]Entry, error) {
	entries, err := a.Offset(iv)
	if err != nil {
		var oe *OverflowError
		if errors.As(err, &oe) {
			oe.Source = name
		}
		return nil, err
	}
	return entries, nil
}

// Merge combines the entry sets of several sources into one key-sorted
// namespace. A key present in two sets is a build error.
func Merge(sets ...[]Entry) ([]Entry, error) {
	var n int
	for _, s := range sets {
		n += len(s)
	}
	out := make([]Entry, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.SortStableFunc(out, func(a, b Entry) int { return bytes.Compare(a.Key, b.Key) })
	for i := 1; i < len(out); i++ {
		if bytes.Equal(out[i-1].Key, out[i].Key) {
			return nil, fmt.Errorf("%w: %q maps to %d and %d", ErrDuplicateKey, out[i].Key, out[i-1].ID, out[i].ID)
		}
	}
	return out, nil
}
