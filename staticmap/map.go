package staticmap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/blevesearch/vellum"
	"github.com/hupe1980/topicmap/internal/conv"
)

// Map is a read-only ordered index over a byte slice.
// The slice must stay valid and unmodified for the lifetime of the Map.
type Map struct {
	fst     *vellum.FST
	readers sync.Pool
}

// Load opens an index over data without copying it.
func Load(data []byte) (m *Map, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	fst, err := vellum.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	// Walk to the smallest key so truncated or garbled roots fail here
	// instead of on the query path.
	if fst.Len() > 0 {
		if _, err := fst.GetMinKey(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	m = &Map{fst: fst}
	m.readers.New = func() any {
		r, _ := fst.Reader()
		return r
	}
	return m, nil
}

// Get returns the topic ID stored for key.
func (m *Map) Get(key []byte) (uint32, bool) {
	r := m.readers.Get().(*vellum.Reader)
	v, ok, err := r.Get(key)
	m.readers.Put(r)
	if err != nil || !ok {
		return 0, false
	}
	id, err := conv.Uint64ToUint32(v)
	return id, err == nil
}

// Len returns the number of keys.
func (m *Map) Len() int { return m.fst.Len() }

// Range calls fn for every entry in ascending key order until fn returns
// false. The key slice is only valid during the call.
func (m *Map) Range(fn func(key []byte, id uint32) bool) error {
	it, err := m.fst.Iterator(nil, nil)
	for err == nil {
		k, v := it.Current()
		id, cerr := conv.Uint64ToUint32(v)
		if cerr != nil {
			return fmt.Errorf("%w: %q: %w", ErrIDRange, k, cerr)
		}
		if !fn(k, id) {
			return nil
		}
		err = it.Next()
	}
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	return fmt.Errorf("staticmap: iterate: %w", err)
}

// Bounds returns the smallest and largest key.
func (m *Map) Bounds() (lo, hi []byte, err error) {
	if lo, err = m.fst.GetMinKey(); err != nil {
		return nil, nil, err
	}
	if hi, err = m.fst.GetMaxKey(); err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}
