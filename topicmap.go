package topicmap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/topicmap/backend"
	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/manifest"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap/phf"
)

// Open builds a router over every registered source.
//
// Compiled sources are available immediately. Ordered sources are loaded
// once from the configured store; when none is configured, or when a load
// fails, the source resolves nothing and the failure is logged. Open only
// returns an error for invalid options.
func Open(ctx context.Context, optFns ...Option) (*Router, error) {
	o := applyOptions(optFns)

	store := o.store
	if store == nil {
		dir := o.dir
		if dir == "" {
			dir = os.Getenv(EnvDir)
		}
		if dir != "" {
			store = blobstore.NewLocalStore(dir)
		}
	}

	var m *manifest.Manifest
	var manifestErr error
	if store != nil && o.manifestCheck {
		m, manifestErr = manifest.Read(ctx, store, ".")
	}

	backends := make(map[source.ID]backend.Backend, o.registry.Len())
	for i := range o.registry.Sources() {
		src := &o.registry.Sources()[i]
		b, err := openSource(ctx, src, store, m, manifestErr, o)
		if err != nil {
			o.logger.LogLoad(ctx, src.Name, 0, 0, err)
			continue
		}
		backends[src.ID] = b
	}
	return NewRouter(o.registry, backends,
		WithMetrics(o.metricsCollector), WithLogger(o.logger)), nil
}

func openSource(ctx context.Context, src *source.Source, store blobstore.BlobStore,
	m *manifest.Manifest, manifestErr error, o options) (backend.Backend, error) {
	tables := make(map[source.ChannelID]*phf.Table, len(src.Channels))
	for _, ch := range src.Channels {
		if ch.Structure != source.PerfectHash {
			continue
		}
		t, ok := backend.Compiled(src.Name, ch.Name)
		if !ok {
			return nil, &ErrBackendUnavailable{Source: src.ID, Name: src.Name,
				cause: fmt.Errorf("%w: channel %s", backend.ErrNotCompiled, ch.Name)}
		}
		tables[ch.ID] = t
	}
	compiled := backend.NewPerfectHash(tables)
	if !hasOrdered(src) {
		return compiled, nil
	}

	ordered, err := openOrdered(ctx, src, store, m, manifestErr, o)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return ordered, nil
	}
	routes := make(map[source.ChannelID]backend.Backend, len(src.Channels))
	for _, ch := range src.Channels {
		if ch.Structure == source.PerfectHash {
			routes[ch.ID] = compiled
		} else {
			routes[ch.ID] = ordered
		}
	}
	return backend.NewChannels(routes), nil
}

// openOrdered loads the ordered channels of src. A failed load is logged and
// the backend is returned anyway, resolving nothing.
func openOrdered(ctx context.Context, src *source.Source, store blobstore.BlobStore,
	m *manifest.Manifest, manifestErr error, o options) (*backend.Ordered, error) {
	var opts []backend.OrderedOption
	if m != nil {
		opts = append(opts, backend.WithManifest(m))
	}
	b, err := backend.NewOrdered(src, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	switch {
	case store == nil:
		err = ErrNoStore
	case manifestErr != nil:
		err = manifestErr
	default:
		err = b.Load(ctx, store)
	}
	o.metricsCollector.RecordLoad(src.Name, time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(ctx, src.Name, 0, time.Since(start), &ErrBackendUnavailable{Source: src.ID, Name: src.Name, cause: err})
		return b, nil
	}

	entries := 0
	for _, ch := range src.Channels {
		if sm, ok := b.Map(ch.ID); ok {
			entries += sm.Len()
		}
	}
	o.logger.LogLoad(ctx, src.Name, entries, time.Since(start), nil)
	return b, nil
}

func hasOrdered(src *source.Source) bool {
	for _, ch := range src.Channels {
		if ch.Structure == source.OrderedIndex {
			return true
		}
	}
	return false
}
