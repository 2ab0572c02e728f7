// Package manifest describes the output of one topic map build.
//
// The manifest is a flat JSON object: the reserved fields version, build_id,
// created_at and combined, plus one entry per source keyed by source name:
//
//	{
//	  "binance": {"count": 69, "base": 0, "size": 10000,
//	    "channels": {"book_ticker": {"count": 69, "structure": "phf"}}},
//	  "build_id": "6f1c…",
//	  "uniswap": {"count": 2, "base": 10000, "size": 25000,
//	    "channels": {"swap": {"count": 2, "structure": "fst", "file": "uniswap.swap.map", "size": 131, "crc32c": 3735928559}}},
//	  "version": 1
//	}
//
// It is written last by a build, so its presence marks a complete output
// directory. Loaders use it only to validate compatibility; it is never
// consulted on the query path.
package manifest
