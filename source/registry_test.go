package source

import (
	"testing"

	"github.com/hupe1980/topicmap/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	require.NoError(t, Default.Validate())
	require.Equal(t, 2, Default.Len())

	b, err := Default.Get(Binance)
	require.NoError(t, err)
	assert.Equal(t, "binance", b.Name)
	assert.Equal(t, Symbol, b.Keys)
	assert.Equal(t, model.NewInterval(0, 10_000), b.Interval)

	u, err := Default.Lookup("uniswap")
	require.NoError(t, err)
	assert.Equal(t, Uniswap, u.ID)
	assert.Equal(t, Pool32, u.Keys)

	ch, ok := u.Channel(Swap)
	require.True(t, ok)
	assert.Equal(t, OrderedIndex, ch.Structure)
	assert.Equal(t, "uniswap.swap.map", ArtifactName(u.Name, ch.Name))
}

func TestDefaultRegistry_IntervalsDisjoint(t *testing.T) {
	srcs := Default.Sources()
	for i := range srcs {
		for j := range srcs {
			if i == j {
				continue
			}
			assert.False(t, srcs[i].Interval.Overlaps(srcs[j].Interval),
				"%s and %s overlap", srcs[i].Name, srcs[j].Name)
		}
	}
}

func TestRegistry_Resolve(t *testing.T) {
	s, ch, err := Default.Resolve("binance", "book_ticker")
	require.NoError(t, err)
	assert.Equal(t, Binance, s.ID)
	assert.Equal(t, BookTicker, ch.ID)
	assert.Equal(t, PerfectHash, ch.Structure)

	_, _, err = Default.Resolve("kraken", "trade")
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, _, err = Default.Resolve("binance", "trade")
	assert.ErrorIs(t, err, ErrUnknownChannel)

	_, err = Default.Get(7)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestNewRegistry_Invalid(t *testing.T) {
	ch := []Channel{{ID: 0, Name: "trade", Structure: OrderedIndex}}

	tests := []struct {
		name    string
		sources []Source
	}{
		{"empty", nil},
		{"overlap", []Source{
			{ID: 0, Name: "a", Interval: model.NewInterval(0, 100), Keys: Symbol, Channels: ch},
			{ID: 1, Name: "b", Interval: model.NewInterval(99, 100), Keys: Symbol, Channels: ch},
		}},
		{"duplicate name", []Source{
			{ID: 0, Name: "a", Interval: model.NewInterval(0, 100), Keys: Symbol, Channels: ch},
			{ID: 1, Name: "a", Interval: model.NewInterval(100, 100), Keys: Symbol, Channels: ch},
		}},
		{"reserved name", []Source{
			{ID: 0, Name: "version", Interval: model.NewInterval(0, 100), Keys: Symbol, Channels: ch},
		}},
		{"sparse ids", []Source{
			{ID: 1, Name: "a", Interval: model.NewInterval(0, 100), Keys: Symbol, Channels: ch},
		}},
		{"empty interval", []Source{
			{ID: 0, Name: "a", Interval: model.NewInterval(0, 0), Keys: Symbol, Channels: ch},
		}},
		{"no channels", []Source{
			{ID: 0, Name: "a", Interval: model.NewInterval(0, 100), Keys: Symbol},
		}},
		{"duplicate channel", []Source{
			{ID: 0, Name: "a", Interval: model.NewInterval(0, 100), Keys: Symbol, Channels: append(ch, ch...)},
		}},
		{"unknown key kind", []Source{
			{ID: 0, Name: "a", Interval: model.NewInterval(0, 100), Channels: ch},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.sources...)
			assert.ErrorIs(t, err, ErrInvalidRegistry)
		})
	}
}

func TestStructureNames(t *testing.T) {
	for _, s := range []Structure{PerfectHash, OrderedIndex} {
		parsed, err := ParseStructure(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseStructure("btree")
	assert.Error(t, err)
}
