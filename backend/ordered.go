package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/internal/hash"
	"github.com/hupe1980/topicmap/manifest"
	"github.com/hupe1980/topicmap/model"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap"
)

// OrderedOption configures an Ordered backend.
type OrderedOption func(*Ordered)

// WithManifest checks every artifact against m while loading: the format
// version, the entry count and the CRC32C of the file.
func WithManifest(m *manifest.Manifest) OrderedOption {
	return func(o *Ordered) { o.manifest = m }
}

// Ordered serves the ordered-index artifacts of one source.
type Ordered struct {
	src      *source.Source
	manifest *manifest.Manifest

	once  sync.Once
	state atomic.Pointer[orderedState]
}

type orderedState struct {
	maps  []*staticmap.Map // indexed by channel ID
	blobs []blobstore.Blob
}

var _ Backend = (*Ordered)(nil)

// NewOrdered returns an unloaded backend for src.
func NewOrdered(src *source.Source, opts ...OrderedOption) (*Ordered, error) {
	ordered := false
	for _, ch := range src.Channels {
		ordered = ordered || ch.Structure == source.OrderedIndex
	}
	if !ordered {
		return nil, fmt.Errorf("%w: %s", ErrNotOrdered, src.Name)
	}
	o := &Ordered{src: src}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Source returns the source served by the backend.
func (o *Ordered) Source() *source.Source { return o.src }

// Loaded reports whether Load has published state.
func (o *Ordered) Loaded() bool { return o.state.Load() != nil }

// Load opens every ordered channel artifact of the source from store.
// Only the first call has an effect; later calls return ErrAlreadyLoaded.
// On error nothing is published and the backend keeps resolving to no mapping.
func (o *Ordered) Load(ctx context.Context, store blobstore.BlobStore) error {
	first := false
	var err error
	o.once.Do(func() {
		first = true
		err = o.load(ctx, store)
	})
	if !first {
		return ErrAlreadyLoaded
	}
	return err
}

func (o *Ordered) load(ctx context.Context, store blobstore.BlobStore) error {
	var entry manifest.Source
	if o.manifest != nil {
		if err := o.manifest.Check(); err != nil {
			return &LoadError{Source: o.src.Name, File: manifest.FileName, Err: err}
		}
		var ok bool
		if entry, ok = o.manifest.Sources[o.src.Name]; !ok {
			return &LoadError{Source: o.src.Name, File: manifest.FileName,
				Err: fmt.Errorf("%w: no entry for source", manifest.ErrMismatch)}
		}
	}

	st := &orderedState{}
	for _, ch := range o.src.Channels {
		if ch.Structure != source.OrderedIndex {
			continue
		}
		file := source.ArtifactName(o.src.Name, ch.Name)
		m, blob, err := o.open(ctx, store, file, entry.Channels, ch.Name)
		if err != nil {
			st.close()
			return &LoadError{Source: o.src.Name, File: file, Err: err}
		}
		if int(ch.ID) >= len(st.maps) {
			st.maps = append(st.maps, make([]*staticmap.Map, int(ch.ID)+1-len(st.maps))...)
		}
		st.maps[ch.ID] = m
		if blob != nil {
			st.blobs = append(st.blobs, blob)
		}
	}
	o.state.Store(st)
	return nil
}

// open returns the map of one artifact. The returned blob is non-nil when
// the map references its memory and must stay open.
func (o *Ordered) open(ctx context.Context, store blobstore.BlobStore, file string,
	channels map[string]manifest.Artifact, name string) (*staticmap.Map, blobstore.Blob, error) {
	data, blob, err := readArtifact(ctx, store, file)
	if err != nil {
		return nil, nil, err
	}
	m, err := o.verify(data, channels, name)
	if err != nil {
		if blob != nil {
			_ = blob.Close()
		}
		return nil, nil, err
	}
	return m, blob, nil
}

// readArtifact maps file when the store supports it and copies it otherwise.
func readArtifact(ctx context.Context, store blobstore.BlobStore, file string) ([]byte, blobstore.Blob, error) {
	b, err := store.Open(ctx, file)
	if err != nil {
		return nil, nil, err
	}
	if mb, ok := b.(blobstore.Mappable); ok {
		if data, err := mb.Bytes(); err == nil {
			return data, b, nil
		}
	}
	_ = b.Close()
	data, err := blobstore.ReadAll(ctx, store, file)
	return data, nil, err
}

func (o *Ordered) verify(data []byte, channels map[string]manifest.Artifact, name string) (*staticmap.Map, error) {
	var a manifest.Artifact
	if o.manifest != nil {
		var ok bool
		if a, ok = channels[name]; !ok {
			return nil, fmt.Errorf("%w: no entry for channel %s", manifest.ErrMismatch, name)
		}
		if a.Size != 0 && a.Size != int64(len(data)) {
			return nil, fmt.Errorf("%w: size %d, manifest records %d", ErrCorruptArtifact, len(data), a.Size)
		}
		if sum := hash.CRC32C(data); sum != a.CRC32C {
			return nil, fmt.Errorf("%w: crc32c %08x, manifest records %08x", ErrCorruptArtifact, sum, a.CRC32C)
		}
	}
	m, err := staticmap.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	if o.manifest != nil && m.Len() != a.Count {
		return nil, fmt.Errorf("%w: %d entries, manifest records %d", ErrCorruptArtifact, m.Len(), a.Count)
	}
	return m, nil
}

// Resolve implements Backend.
func (o *Ordered) Resolve(ch source.ChannelID, key []byte) (model.LocalID, bool) {
	st := o.state.Load()
	if st == nil || int(ch) >= len(st.maps) || st.maps[ch] == nil {
		return 0, false
	}
	id, ok := st.maps[ch].Get(key)
	return model.LocalID(id), ok
}

// Map returns the loaded map of ch.
func (o *Ordered) Map(ch source.ChannelID) (*staticmap.Map, bool) {
	st := o.state.Load()
	if st == nil || int(ch) >= len(st.maps) || st.maps[ch] == nil {
		return nil, false
	}
	return st.maps[ch], true
}

// Close releases mapped artifacts. It must not run concurrently with Resolve;
// afterwards every key resolves to no mapping.
func (o *Ordered) Close() error {
	st := o.state.Swap(nil)
	if st == nil {
		return nil
	}
	return st.close()
}

func (st *orderedState) close() error {
	var errs []error
	for _, b := range st.blobs {
		errs = append(errs, b.Close())
	}
	st.blobs = nil
	return errors.Join(errs...)
}
