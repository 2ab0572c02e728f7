package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/topicmap/alloc"
	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/internal/hash"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/manifest"
	"github.com/hupe1980/topicmap/model"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	poolLow  = "0x0003be1f2e3d4c5b6a79880716253443526170f8e9dacbbcadbecfd0e1f2a3b4"
	poolHigh = "0x000a19e4d8b6c2f7d2e1f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9"
)

func uniswap(t *testing.T) *source.Source {
	t.Helper()
	src, err := source.Default.Get(source.Uniswap)
	require.NoError(t, err)
	return src
}

// swapArtifact builds the uniswap swap map over the two test pools.
func swapArtifact(t *testing.T) []byte {
	t.Helper()
	lo, hi := keys.MustParsePoolID(poolLow), keys.MustParsePoolID(poolHigh)
	entries, err := alloc.Assign([][]byte{hi.Bytes(), lo.Bytes()}).Locals()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, staticmap.Build(&buf, entries))
	return buf.Bytes()
}

func manifestFor(data []byte) *manifest.Manifest {
	m := manifest.New()
	m.Sources["uniswap"] = manifest.Source{
		Count: 2, Base: 10_000, Size: 25_000,
		Channels: map[string]manifest.Artifact{"swap": {
			Count: 2, Structure: "fst", File: "uniswap.swap.map",
			Size: int64(len(data)), CRC32C: hash.CRC32C(data),
		}},
	}
	return m
}

func TestBinance_Compiled(t *testing.T) {
	b := Binance()

	id, ok := b.Resolve(source.BookTicker, []byte("ETHBTC"))
	require.True(t, ok)
	assert.Equal(t, model.LocalID(25), id)

	id, ok = b.Resolve(source.BookTicker, []byte("ETHUSDT"))
	require.True(t, ok)
	assert.Equal(t, model.LocalID(30), id)

	_, ok = b.Resolve(source.BookTicker, []byte("ethbtc"))
	assert.False(t, ok, "symbols are case sensitive")
	_, ok = b.Resolve(source.BookTicker, []byte("NOPE"))
	assert.False(t, ok)
	_, ok = b.Resolve(7, []byte("ETHBTC"))
	assert.False(t, ok)

	table, ok := Compiled("binance", "book_ticker")
	require.True(t, ok)
	assert.Equal(t, 69, table.Len())
	_, ok = Compiled("uniswap", "swap")
	assert.False(t, ok)
}

func TestCompiled_KeyedByName(t *testing.T) {
	// Another source registered at binance's ID must not see its table.
	_, ok := Compiled("kraken", "book_ticker")
	assert.False(t, ok)
	_, ok = Compiled("binance", "depth")
	assert.False(t, ok)
}

func TestBinance_MatchesAssignment(t *testing.T) {
	doc, err := os.ReadFile(filepath.Join("data", "binance.json"))
	require.NoError(t, err)
	symbols, err := keys.Symbols(doc)
	require.NoError(t, err)

	a := alloc.Assign(symbols)
	require.Equal(t, a.Len(), Binance().tables[source.BookTicker].Len())
	for i, k := range a.Keys() {
		id, ok := Binance().Resolve(source.BookTicker, k)
		require.True(t, ok, "%s", k)
		assert.Equal(t, model.LocalID(i), id, "%s", k)
	}
}

func TestPerfectHash_ZeroAlloc(t *testing.T) {
	key := []byte("BTCUSDT")
	allocs := testing.AllocsPerRun(1000, func() {
		_, _ = Binance().Resolve(source.BookTicker, key)
	})
	assert.Zero(t, allocs)
}

func TestNewOrdered_RejectsCompiledSource(t *testing.T) {
	src, err := source.Default.Get(source.Binance)
	require.NoError(t, err)
	_, err = NewOrdered(src)
	assert.ErrorIs(t, err, ErrNotOrdered)
}

func TestOrdered_Load(t *testing.T) {
	ctx := context.Background()
	data := swapArtifact(t)
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "uniswap.swap.map", data))

	o, err := NewOrdered(uniswap(t), WithManifest(manifestFor(data)))
	require.NoError(t, err)

	lo := keys.MustParsePoolID(poolLow)
	_, ok := o.Resolve(source.Swap, lo.Bytes())
	assert.False(t, ok, "no mapping before load")

	require.NoError(t, o.Load(ctx, store))
	assert.True(t, o.Loaded())

	id, ok := o.Resolve(source.Swap, lo.Bytes())
	require.True(t, ok)
	assert.Equal(t, model.LocalID(0), id)

	hi := keys.MustParsePoolID(poolHigh)
	id, ok = o.Resolve(source.Swap, hi.Bytes())
	require.True(t, ok)
	assert.Equal(t, model.LocalID(1), id)

	_, ok = o.Resolve(source.Swap, []byte(poolLow))
	assert.False(t, ok, "hex text is not a key")

	m, ok := o.Map(source.Swap)
	require.True(t, ok)
	assert.Equal(t, 2, m.Len())

	require.NoError(t, o.Close())
	_, ok = o.Resolve(source.Swap, lo.Bytes())
	assert.False(t, ok)
}

func TestOrdered_LoadOnce(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "uniswap.swap.map", swapArtifact(t)))

	o, err := NewOrdered(uniswap(t))
	require.NoError(t, err)
	require.NoError(t, o.Load(ctx, store))

	// Replacing the artifact does not affect live state.
	require.NoError(t, store.Put(ctx, "uniswap.swap.map", []byte("garbage")))
	assert.ErrorIs(t, o.Load(ctx, store), ErrAlreadyLoaded)

	lo := keys.MustParsePoolID(poolLow)
	_, ok := o.Resolve(source.Swap, lo.Bytes())
	assert.True(t, ok)
}

func TestOrdered_ConcurrentLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "uniswap.swap.map", swapArtifact(t)))

	o, err := NewOrdered(uniswap(t))
	require.NoError(t, err)

	lo, hi := keys.MustParsePoolID(poolLow), keys.MustParsePoolID(poolHigh)
	const loaders = 16

	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make(chan error, loaders)
		done    = make(chan struct{})
	)
	for range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- o.Load(ctx, store)
		}()
	}

	var readers sync.WaitGroup
	for range 4 {
		readers.Add(1)
		go func() {
			defer readers.Done()
			<-start
			for {
				// A published state holds every entry: once one key
				// resolves, the other does too.
				loID, loOK := o.Resolve(source.Swap, lo.Bytes())
				if loOK {
					assert.Equal(t, model.LocalID(0), loID)
					hiID, hiOK := o.Resolve(source.Swap, hi.Bytes())
					assert.True(t, hiOK)
					assert.Equal(t, model.LocalID(1), hiID)
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	close(start)
	wg.Wait()
	close(done)
	readers.Wait()
	close(results)

	var succeeded, already int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyLoaded):
			already++
		default:
			t.Errorf("unexpected load error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, loaders-1, already)

	id, ok := o.Resolve(source.Swap, hi.Bytes())
	require.True(t, ok)
	assert.Equal(t, model.LocalID(1), id)
}

func TestChannels_MixedSource(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "mixed.depth.map", swapArtifact(t)))

	const depth source.ChannelID = 1
	src := &source.Source{
		ID: source.Binance, Name: "mixed", Interval: model.NewInterval(0, 10_000), Keys: source.Symbol,
		Channels: []source.Channel{
			{ID: source.BookTicker, Name: "book_ticker", Structure: source.PerfectHash},
			{ID: depth, Name: "depth", Structure: source.OrderedIndex},
		},
	}
	ordered, err := NewOrdered(src)
	require.NoError(t, err)
	require.NoError(t, ordered.Load(ctx, store))

	b := NewChannels(map[source.ChannelID]Backend{
		source.BookTicker: Binance(),
		depth:             ordered,
	})

	id, ok := b.Resolve(source.BookTicker, []byte("ETHBTC"))
	require.True(t, ok)
	assert.Equal(t, model.LocalID(25), id)

	hi := keys.MustParsePoolID(poolHigh)
	id, ok = b.Resolve(depth, hi.Bytes())
	require.True(t, ok)
	assert.Equal(t, model.LocalID(1), id)

	_, ok = b.Resolve(depth, []byte("ETHBTC"))
	assert.False(t, ok)
	_, ok = b.Resolve(9, []byte("ETHBTC"))
	assert.False(t, ok)

	key := []byte("ETHUSDT")
	assert.Zero(t, testing.AllocsPerRun(1000, func() { _, _ = b.Resolve(source.BookTicker, key) }))

	require.NoError(t, b.Close())
	assert.False(t, ordered.Loaded())
	_, ok = b.Resolve(source.BookTicker, []byte("ETHBTC"))
	assert.True(t, ok, "compiled channels need no resources")
}

func TestOrdered_MissingArtifact(t *testing.T) {
	o, err := NewOrdered(uniswap(t))
	require.NoError(t, err)

	err = o.Load(context.Background(), blobstore.NewMemoryStore())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "uniswap", le.Source)
	assert.Equal(t, "uniswap.swap.map", le.File)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.False(t, o.Loaded())

	for _, p := range []string{poolLow, poolHigh} {
		pool := keys.MustParsePoolID(p)
		_, ok := o.Resolve(source.Swap, pool.Bytes())
		assert.False(t, ok)
	}
	assert.ErrorIs(t, o.Load(context.Background(), blobstore.NewMemoryStore()), ErrAlreadyLoaded)
}

func TestOrdered_CorruptArtifact(t *testing.T) {
	ctx := context.Background()
	data := swapArtifact(t)

	tests := []struct {
		name   string
		stored []byte
		m      *manifest.Manifest
		want   error
	}{
		{"garbage without manifest", []byte("garbage"), nil, ErrCorruptArtifact},
		{"crc mismatch", append(bytes.Clone(data[:len(data)-1]), data[len(data)-1]^0xff), manifestFor(data), ErrCorruptArtifact},
		{"size mismatch", data[:len(data)-1], manifestFor(data), ErrCorruptArtifact},
		{"version", data, func() *manifest.Manifest { m := manifestFor(data); m.Version = 2; return m }(), manifest.ErrIncompatibleVersion},
		{"missing source entry", data, manifest.New(), manifest.ErrMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			require.NoError(t, store.Put(ctx, "uniswap.swap.map", tt.stored))

			var opts []OrderedOption
			if tt.m != nil {
				opts = append(opts, WithManifest(tt.m))
			}
			o, err := NewOrdered(uniswap(t), opts...)
			require.NoError(t, err)
			assert.ErrorIs(t, o.Load(ctx, store), tt.want)
			assert.False(t, o.Loaded())
		})
	}
}

func TestOrdered_LocalStoreMapped(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "uniswap.swap.map", swapArtifact(t)))

	o, err := NewOrdered(uniswap(t))
	require.NoError(t, err)
	require.NoError(t, o.Load(ctx, store))
	t.Cleanup(func() { _ = o.Close() })

	hi := keys.MustParsePoolID(poolHigh)
	key := hi.Bytes()
	allocs := testing.AllocsPerRun(1000, func() {
		_, _ = o.Resolve(source.Swap, key)
	})
	assert.Zero(t, allocs)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				id, ok := o.Resolve(source.Swap, key)
				assert.True(t, ok)
				assert.Equal(t, model.LocalID(1), id)
			}
		}()
	}
	wg.Wait()
}
