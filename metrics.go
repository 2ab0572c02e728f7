package topicmap

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/topicmap/source"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// RecordLookup is called on the query path and must not allocate or block.
type MetricsCollector interface {
	// RecordLookup is called after each lookup. hit is false for a miss.
	RecordLookup(src source.ID, hit bool)

	// RecordLoad is called after each backend load.
	RecordLoad(src string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(source.ID, bool)            {}
func (NoopMetricsCollector) RecordLoad(string, time.Duration, error) {}

// maxSources bounds the per-source counters of BasicMetricsCollector.
const maxSources = 16

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	Lookups        [maxSources]atomic.Int64
	Hits           [maxSources]atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadTotalNanos atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(src source.ID, hit bool) {
	if int(src) >= maxSources {
		return
	}
	b.Lookups[src].Add(1)
	if hit {
		b.Hits[src].Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ string, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		LoadCount:  b.LoadCount.Load(),
		LoadErrors: b.LoadErrors.Load(),
	}
	for i := range maxSources {
		s.Lookups += b.Lookups[i].Load()
		s.Hits += b.Hits[i].Load()
	}
	if s.LoadCount > 0 {
		s.LoadAvgNanos = b.LoadTotalNanos.Load() / s.LoadCount
	}
	return s
}

// SourceStats returns the lookup and hit counts of one source.
func (b *BasicMetricsCollector) SourceStats(src source.ID) (lookups, hits int64) {
	if int(src) >= maxSources {
		return 0, 0
	}
	return b.Lookups[src].Load(), b.Hits[src].Load()
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Lookups      int64
	Hits         int64
	LoadCount    int64
	LoadErrors   int64
	LoadAvgNanos int64
}
