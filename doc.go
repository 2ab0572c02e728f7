// Package topicmap resolves upstream identifiers to dense numeric topic IDs.
//
// Every source (an exchange, an on-chain protocol) owns a reserved interval of
// the topic ID space. Keys of a source are assigned local IDs offline, in byte
// order, and persisted as static structures: compiled perfect-hash tables for
// small fixed sets and ordered-index artifacts for the rest.
//
// # Quick Start
//
//	r, err := topicmap.Open(ctx, topicmap.WithLogger(topicmap.NewTextLogger(slog.LevelInfo)))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	id, ok := r.LookupString(source.Binance, source.BookTicker, "ETHBTC")
//
// Open loads ordered artifacts from the directory named by TOPIC_MAP_DIR, or
// from the store given with WithDir or WithStore. A source whose artifacts are
// missing or corrupt resolves nothing; the other sources keep working.
//
// # Query path
//
// Lookup, LookupString and LookupPool are lock-free and allocation-free. A
// missing key is reported as false, never as an error.
package topicmap
