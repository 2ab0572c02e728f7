package staticmap

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/topicmap/alloc"
	"github.com/hupe1980/topicmap/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEntries(t *testing.T, base uint32, keys ...[]byte) []alloc.Entry {
	t.Helper()
	entries, err := alloc.Assign(keys).Offset(model.NewInterval(base, 1<<20))
	require.NoError(t, err)
	return entries
}

func poolKey(b1, b2 byte) []byte {
	k := make([]byte, 32)
	k[1], k[2] = b1, b2
	return k
}

func TestBuildLoad_RoundTrip(t *testing.T) {
	entries := buildEntries(t, 10_000, poolKey(0x0a, 0x19), poolKey(0x03, 0xbe), []byte("ETHBTC"))

	var buf bytes.Buffer
	require.NoError(t, Build(&buf, entries))

	m, err := Load(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	for _, e := range entries {
		id, ok := m.Get(e.Key)
		require.True(t, ok, "key %x", e.Key)
		assert.Equal(t, uint32(e.ID), id)
	}

	low, ok := m.Get(poolKey(0x03, 0xbe))
	require.True(t, ok)
	high, ok := m.Get(poolKey(0x0a, 0x19))
	require.True(t, ok)
	assert.Equal(t, uint32(10_000), low)
	assert.Less(t, low, high)

	_, ok = m.Get(poolKey(0xff, 0xff))
	assert.False(t, ok)
	_, ok = m.Get(nil)
	assert.False(t, ok)
	_, ok = m.Get([]byte("ETHBT"))
	assert.False(t, ok, "prefix of a key is not a key")
}

func TestBuild_Deterministic(t *testing.T) {
	keys := [][]byte{[]byte("c"), []byte("a"), []byte("b"), []byte("abc")}

	var first, second bytes.Buffer
	require.NoError(t, Build(&first, buildEntries(t, 0, keys...)))
	require.NoError(t, Build(&second, buildEntries(t, 0, keys[3], keys[1], keys[0], keys[2])))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestBuilder_OutOfOrder(t *testing.T) {
	var buf bytes.Buffer
	b, err := NewBuilder(&buf)
	require.NoError(t, err)

	require.NoError(t, b.Insert([]byte("b"), 1))
	assert.ErrorIs(t, b.Insert([]byte("a"), 0), ErrOutOfOrder)
	assert.ErrorIs(t, b.Insert([]byte("b"), 2), ErrOutOfOrder, "duplicates are rejected")
	require.NoError(t, b.Insert([]byte("c"), 2))
	assert.Equal(t, 2, b.Len())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Insert([]byte("d"), 3), ErrClosed)
}

func TestBuild_Unsorted(t *testing.T) {
	entries := []alloc.Entry{{Key: []byte("b"), ID: 0}, {Key: []byte("a"), ID: 1}}
	err := Build(&bytes.Buffer{}, entries)
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestMap_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(&buf, nil))

	m, err := Load(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get([]byte("x"))
	assert.False(t, ok)

	var n int
	require.NoError(t, m.Range(func([]byte, uint32) bool { n++; return true }))
	assert.Zero(t, n)
}

func TestMap_Range(t *testing.T) {
	entries := buildEntries(t, 5, []byte("b"), []byte("a"), []byte("c"))
	var buf bytes.Buffer
	require.NoError(t, Build(&buf, entries))
	m, err := Load(buf.Bytes())
	require.NoError(t, err)

	var got []string
	require.NoError(t, m.Range(func(k []byte, id uint32) bool {
		got = append(got, fmt.Sprintf("%s=%d", k, id))
		return true
	}))
	assert.Equal(t, []string{"a=5", "b=6", "c=7"}, got)

	got = got[:0]
	require.NoError(t, m.Range(func(k []byte, id uint32) bool {
		got = append(got, string(k))
		return false
	}))
	assert.Equal(t, []string{"a"}, got)

	lo, hi, err := m.Bounds()
	require.NoError(t, err)
	assert.Equal(t, "a", string(lo))
	assert.Equal(t, "c", string(hi))
}

func TestLoad_Corrupt(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("short"), bytes.Repeat([]byte{0xff}, 64)} {
		_, err := Load(data)
		assert.ErrorIs(t, err, ErrCorrupt)
	}
}

func TestMap_GetZeroAlloc(t *testing.T) {
	entries := buildEntries(t, 0, []byte("ETHBTC"), []byte("ETHUSDT"), []byte("BTCUSDT"))
	var buf bytes.Buffer
	require.NoError(t, Build(&buf, entries))
	m, err := Load(buf.Bytes())
	require.NoError(t, err)

	key := []byte("ETHUSDT")
	m.Get(key) // warm the reader pool

	allocs := testing.AllocsPerRun(1000, func() {
		if _, ok := m.Get(key); !ok {
			t.Fatal("missing key")
		}
	})
	assert.Zero(t, allocs)
}

func TestMap_ConcurrentGet(t *testing.T) {
	keys := make([][]byte, 500)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("SYM%04d", i))
	}
	entries := buildEntries(t, 0, keys...)
	var buf bytes.Buffer
	require.NoError(t, Build(&buf, entries))
	m, err := Load(buf.Bytes())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range entries {
				e := entries[(i+g*37)%len(entries)]
				id, ok := m.Get(e.Key)
				assert.True(t, ok)
				assert.Equal(t, uint32(e.ID), id)
			}
		}()
	}
	wg.Wait()
}
