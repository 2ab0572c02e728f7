package topicmap

import (
	"io"
	"unsafe"

	"github.com/hupe1980/topicmap/backend"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/model"
	"github.com/hupe1980/topicmap/source"
)

// Router maps (source, channel, key) to a global topic ID.
// It holds no mutable state and is safe for concurrent use.
type Router struct {
	registry  *source.Registry
	backends  []backend.Backend // indexed by source ID
	intervals []model.Interval
	metrics   MetricsCollector
	closers   []io.Closer
}

// NewRouter returns a router over backends keyed by source ID. Sources
// without a backend resolve nothing.
func NewRouter(reg *source.Registry, backends map[source.ID]backend.Backend, opts ...Option) *Router {
	o := applyOptions(append([]Option{WithRegistry(reg)}, opts...))
	r := &Router{
		registry:  o.registry,
		backends:  make([]backend.Backend, o.registry.Len()),
		intervals: make([]model.Interval, o.registry.Len()),
		metrics:   o.metricsCollector,
	}
	for i, s := range o.registry.Sources() {
		r.intervals[i] = s.Interval
		if b, ok := backends[s.ID]; ok {
			r.backends[i] = b
			if c, ok := b.(io.Closer); ok {
				r.closers = append(r.closers, c)
			}
		}
	}
	return r
}

// Lookup returns the global topic ID of key on channel ch of source src.
// Unknown sources, channels and keys report false.
func (r *Router) Lookup(src source.ID, ch source.ChannelID, key []byte) (model.TopicID, bool) {
	if int(src) >= len(r.backends) || r.backends[src] == nil {
		r.metrics.RecordLookup(src, false)
		return 0, false
	}
	local, ok := r.backends[src].Resolve(ch, key)
	if !ok {
		r.metrics.RecordLookup(src, false)
		return 0, false
	}
	id, ok := r.intervals[src].Global(local)
	r.metrics.RecordLookup(src, ok)
	return id, ok
}

// LookupString is Lookup for a string key. The key is not copied.
func (r *Router) LookupString(src source.ID, ch source.ChannelID, key string) (model.TopicID, bool) {
	return r.Lookup(src, ch, unsafe.Slice(unsafe.StringData(key), len(key)))
}

// LookupPool resolves a decoded pool ID on a uniswap channel.
func (r *Router) LookupPool(ch source.ChannelID, pool *keys.PoolID) (model.TopicID, bool) {
	return r.Lookup(source.Uniswap, ch, pool[:])
}

// Registry returns the source table of the router.
func (r *Router) Registry() *source.Registry { return r.registry }

// Backend returns the backend serving src.
func (r *Router) Backend(src source.ID) (backend.Backend, bool) {
	if int(src) >= len(r.backends) || r.backends[src] == nil {
		return nil, false
	}
	return r.backends[src], true
}

// Close releases mapped artifacts. It must not run concurrently with lookups.
func (r *Router) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	for _, b := range r.closers {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}
