package artifact

import (
	"log/slog"

	"github.com/hupe1980/topicmap/internal/compress"
	"github.com/hupe1980/topicmap/internal/resource"
)

// DefaultConcurrency bounds parallel transfers.
const DefaultConcurrency = 4

type options struct {
	codec       compress.Codec
	concurrency int
	bytesPerSec int
	memoryLimit int64
	logger      *slog.Logger
}

// Option configures Publish and Fetch.
type Option func(*options)

// WithCodec selects the transport compression of Publish. Defaults to zstd.
func WithCodec(c compress.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithConcurrency bounds the number of parallel transfers.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRateLimit caps the transfer rate in bytes per second. Zero disables
// the limit.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) { o.bytesPerSec = bytesPerSec }
}

// WithMemoryLimit caps the uncompressed artifact bytes held in memory by
// concurrent transfers. An artifact larger than the limit fails with
// resource.ErrMemoryLimitExceeded. Zero disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) { o.memoryLimit = bytes }
}

// WithLogger configures progress logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func (o options) controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		MaxTransfers:       int64(o.concurrency),
		IOLimitBytesPerSec: int64(o.bytesPerSec),
	})
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:       compress.ZSTD,
		concurrency: DefaultConcurrency,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
