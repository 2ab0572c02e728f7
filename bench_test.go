package topicmap

import (
	"context"
	"testing"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/source"
)

func openBench(b *testing.B) *Router {
	b.Helper()
	dir := b.TempDir()
	writeRelease(b, blobstore.NewLocalStore(dir))
	r, err := Open(context.Background(), WithDir(dir))
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	b.Cleanup(func() { _ = r.Close() })
	return r
}

func BenchmarkLookup(b *testing.B) {
	r := openBench(b)
	pool := keys.MustParsePoolID(poolHigh)
	symbol := []byte("ETHUSDT")

	b.Run("phf", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, ok := r.Lookup(source.Binance, source.BookTicker, symbol); !ok {
				b.Fatal("miss")
			}
		}
	})

	b.Run("fst", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, ok := r.LookupPool(source.Swap, &pool); !ok {
				b.Fatal("miss")
			}
		}
	})

	b.Run("miss", func(b *testing.B) {
		unknown := []byte("NOPE")
		b.ReportAllocs()
		for b.Loop() {
			r.Lookup(source.Binance, source.BookTicker, unknown)
		}
	})

	b.Run("fst-parallel", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				r.LookupPool(source.Swap, &pool)
			}
		})
	})
}
