package phf

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("SYM%05dUSDT", i)
	}
	return out
}

func sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func TestBuild_Minimal(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 100, 2500} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			keys := symbols(n)
			tbl, err := Build(keys, sequence(n))
			require.NoError(t, err)
			assert.Equal(t, n, tbl.Len())
			assert.Len(t, tbl.Values, n, "one slot per key")

			for i, k := range keys {
				v, ok := tbl.GetString(k)
				require.True(t, ok, k)
				assert.Equal(t, uint32(i), v)

				v, ok = tbl.Get([]byte(k))
				require.True(t, ok, k)
				assert.Equal(t, uint32(i), v)
			}
		})
	}
}

func TestBuild_Absent(t *testing.T) {
	tbl, err := Build([]string{"ETHBTC", "ETHUSDT"}, []uint32{0, 1})
	require.NoError(t, err)

	for _, k := range []string{"", "ETH", "ethbtc", "ETHBTCX", "BTCUSDT"} {
		_, ok := tbl.GetString(k)
		assert.False(t, ok, k)
	}
}

func TestBuild_Empty(t *testing.T) {
	tbl, err := Build(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
	_, ok := tbl.Get([]byte("ETHBTC"))
	assert.False(t, ok)
	_, ok = (&Table{}).GetString("ETHBTC")
	assert.False(t, ok)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build([]string{"a", "b"}, []uint32{0})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Build([]string{"a", "b", "a"}, []uint32{0, 1, 2})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestBuild_OrderIndependent(t *testing.T) {
	a, err := Build([]string{"ETHBTC", "ETHUSDT", "BTCUSDT"}, []uint32{1, 2, 0})
	require.NoError(t, err)
	b, err := Build([]string{"BTCUSDT", "ETHUSDT", "ETHBTC"}, []uint32{0, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTable_ZeroAlloc(t *testing.T) {
	keys := symbols(64)
	tbl, err := Build(keys, sequence(64))
	require.NoError(t, err)

	key := []byte(keys[17])
	allocs := testing.AllocsPerRun(1000, func() {
		if _, ok := tbl.Get(key); !ok {
			t.Fatal("missing key")
		}
		if _, ok := tbl.GetString(keys[42]); !ok {
			t.Fatal("missing key")
		}
	})
	assert.Zero(t, allocs)
}

func TestTable_Range(t *testing.T) {
	tbl, err := Build([]string{"a", "b", "c"}, []uint32{0, 1, 2})
	require.NoError(t, err)

	got := map[string]uint32{}
	tbl.Range(func(k string, v uint32) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, map[string]uint32{"a": 0, "b": 1, "c": 2}, got)

	var n int
	tbl.Range(func(string, uint32) bool { n++; return false })
	assert.Equal(t, 1, n)
}

func TestGenerate(t *testing.T) {
	tbl, err := Build([]string{"ETHBTC", "ETHUSDT", `we"ird`}, []uint32{0, 1, 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Generate(&buf, GenerateConfig{
		Package:   "backend",
		Var:       "bookTicker",
		Doc:       "bookTicker is a test table.",
		Generator: "phf_test",
	}, tbl)
	require.NoError(t, err)

	src := buf.String()
	assert.Contains(t, src, "// Code generated by phf_test; DO NOT EDIT.")
	assert.Contains(t, src, "var bookTicker = &phf.Table{")
	assert.Contains(t, src, `"we\"ird",`)

	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "backend", f.Name.Name)

	var again bytes.Buffer
	require.NoError(t, Generate(&again, GenerateConfig{
		Package:   "backend",
		Var:       "bookTicker",
		Doc:       "bookTicker is a test table.",
		Generator: "phf_test",
	}, tbl))
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestGenerate_MissingNames(t *testing.T) {
	err := Generate(&bytes.Buffer{}, GenerateConfig{Package: "x"}, &Table{})
	assert.Error(t, err)
}
