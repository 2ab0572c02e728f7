package topicmap

import (
	"log/slog"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/source"
)

// EnvDir names the environment variable holding the artifact directory.
const EnvDir = "TOPIC_MAP_DIR"

type options struct {
	registry         *source.Registry
	store            blobstore.BlobStore
	dir              string
	manifestCheck    bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Open.
type Option func(*options)

// WithRegistry replaces the source table. Defaults to source.Default.
func WithRegistry(reg *source.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithDir loads artifacts from a local directory instead of TOPIC_MAP_DIR.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithStore loads artifacts from store. It takes precedence over WithDir and
// TOPIC_MAP_DIR.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithManifestCheck controls whether artifacts are verified against the
// manifest of the build directory. Enabled by default.
func WithManifestCheck(enabled bool) Option {
	return func(o *options) {
		o.manifestCheck = enabled
	}
}

// WithMetrics configures a metrics collector. Pass nil to disable metrics.
//
// Example with BasicMetricsCollector:
//
//	metrics := &topicmap.BasicMetricsCollector{}
//	r, _ := topicmap.Open(ctx, topicmap.WithMetrics(metrics))
//	// ... use r ...
//	stats := metrics.GetStats()
//	fmt.Printf("Lookups: %d, hits: %d\n", stats.Lookups, stats.Hits)
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for loads. Pass nil to disable
// logging. Lookups never log.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		registry:         source.Default,
		manifestCheck:    true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
