package build

import (
	"log/slog"
	"time"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/source"
)

type options struct {
	registry  *source.Registry
	store     blobstore.BlobStore
	combined  bool
	strict    bool
	timestamp func() time.Time
	logger    *slog.Logger
}

// Option configures Run.
type Option func(*options)

// WithRegistry replaces the source table. Defaults to source.Default.
func WithRegistry(reg *source.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithStore writes the build to store instead of a local directory.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) { o.store = store }
}

// WithCombined also writes topic.map, one ordered index over every key of
// every source carrying global topic IDs.
func WithCombined(enabled bool) Option {
	return func(o *options) { o.combined = enabled }
}

// WithStrictCompiled turns a stale compiled perfect-hash table into a build
// error instead of a warning.
func WithStrictCompiled(enabled bool) Option {
	return func(o *options) { o.strict = enabled }
}

// WithTimestamp records created_at in the manifest. Builds with a timestamp
// are no longer byte-identical across runs; the build ID is unaffected.
func WithTimestamp(now func() time.Time) Option {
	return func(o *options) { o.timestamp = now }
}

// WithLogger configures progress logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		registry: source.Default,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
