// Package source holds the central registry of upstream identifier domains.
//
// Every source owns a reserved TopicID interval, a key kind that decides how
// its identifiers are canonicalized, and one or more channels. Each channel is
// backed by exactly one static structure kind, fixed here and never negotiated
// at runtime:
//
//	source   base    size    keys     channels
//	binance  0       10000   symbol   book_ticker (perfect hash, compiled in)
//	uniswap  10000   25000   pool32   swap        (ordered index artifact)
//
// The table is reviewed in one place and validated programmatically
// (Registry.Validate) rather than trusting hand-written arithmetic.
package source
