// Package artifact ships build directories to and from remote blob storage.
//
// A release lives under its build ID:
//
//	<build_id>/uniswap.swap.map   compressed frame (internal/compress)
//	<build_id>/manifest.json      verbatim
//	CURRENT                       the build ID of the live release
//
// Publish uploads artifacts first, then the manifest, then swaps CURRENT with
// one atomic Put. Fetch resolves CURRENT, verifies every artifact against the
// manifest and writes the manifest last, so a local directory is either the
// old release or the new one.
package artifact
