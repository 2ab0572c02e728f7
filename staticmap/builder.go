package staticmap

import (
	"bytes"
	"fmt"
	"io"

	"github.com/blevesearch/vellum"
	"github.com/hupe1980/topicmap/alloc"
)

// Builder streams a sorted entry set into an index.
type Builder struct {
	fst    *vellum.Builder
	last   []byte
	count  int
	closed bool
}

// NewBuilder returns a builder writing the index to w.
func NewBuilder(w io.Writer) (*Builder, error) {
	b, err := vellum.New(w, nil)
	if err != nil {
		return nil, fmt.Errorf("staticmap: %w", err)
	}
	return &Builder{fst: b}, nil
}

// Insert adds key with the given topic ID.
func (b *Builder) Insert(key []byte, id uint32) error {
	if b.closed {
		return ErrClosed
	}
	if b.count > 0 && bytes.Compare(key, b.last) <= 0 {
		return fmt.Errorf("%w: %q after %q", ErrOutOfOrder, key, b.last)
	}
	if err := b.fst.Insert(key, uint64(id)); err != nil {
		return fmt.Errorf("staticmap: insert %q: %w", key, err)
	}
	b.last = append(b.last[:0], key...)
	b.count++
	return nil
}

// Len returns the number of inserted keys.
func (b *Builder) Len() int { return b.count }

// Close flushes the index. The underlying writer is not closed.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if err := b.fst.Close(); err != nil {
		return fmt.Errorf("staticmap: finish: %w", err)
	}
	return nil
}

// Build writes entries, which must be sorted by key, as one index to w.
func Build(w io.Writer, entries []alloc.Entry) error {
	b, err := NewBuilder(w)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := b.Insert(e.Key, uint32(e.ID)); err != nil {
			return err
		}
	}
	return b.Close()
}
