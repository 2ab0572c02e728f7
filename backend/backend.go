package backend

import (
	"github.com/hupe1980/topicmap/model"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap/phf"
)

// Backend maps a channel key to a local ID within its source's interval.
// Implementations must be safe for concurrent use and must not allocate.
type Backend interface {
	Resolve(ch source.ChannelID, key []byte) (model.LocalID, bool)
}

// PerfectHash serves compiled perfect-hash tables, one per channel.
type PerfectHash struct {
	tables []*phf.Table
}

var _ Backend = (*PerfectHash)(nil)

// NewPerfectHash returns a backend over tables keyed by channel.
func NewPerfectHash(tables map[source.ChannelID]*phf.Table) *PerfectHash {
	n := 0
	for ch := range tables {
		n = max(n, int(ch)+1)
	}
	b := &PerfectHash{tables: make([]*phf.Table, n)}
	for ch, t := range tables {
		b.tables[ch] = t
	}
	return b
}

// Resolve implements Backend.
func (b *PerfectHash) Resolve(ch source.ChannelID, key []byte) (model.LocalID, bool) {
	if int(ch) >= len(b.tables) || b.tables[ch] == nil {
		return 0, false
	}
	v, ok := b.tables[ch].Get(key)
	return model.LocalID(v), ok
}

// Table returns the compiled table of ch.
func (b *PerfectHash) Table(ch source.ChannelID) (*phf.Table, bool) {
	if int(ch) >= len(b.tables) || b.tables[ch] == nil {
		return nil, false
	}
	return b.tables[ch], true
}

//go:generate go run ../cmd/topicmap gen-phf --source binance --channel book_ticker --package backend --var binanceBookTicker --out binance_book_ticker_gen.go data/binance.json

var binance = NewPerfectHash(map[source.ChannelID]*phf.Table{
	source.BookTicker: binanceBookTicker,
})

// Binance returns the compiled backend of the binance source.
func Binance() *PerfectHash { return binance }

// compiled holds the tables generated into the program, keyed by source and
// channel name. Names, not IDs, identify them: a custom registry may number
// its sources differently.
var compiled = map[string]map[string]*phf.Table{
	"binance": {"book_ticker": binanceBookTicker},
}

// Compiled returns the compiled table of a source channel, if the program
// carries one.
func Compiled(sourceName, channelName string) (*phf.Table, bool) {
	t, ok := compiled[sourceName][channelName]
	return t, ok
}
