package build

import "errors"

var (
	// ErrMissingInput is returned when a registered source has no input document.
	ErrMissingInput = errors.New("missing input document")
	// ErrUnknownInput is returned for an input naming no registered source.
	ErrUnknownInput = errors.New("input for unknown source")
	// ErrStaleTable is returned when a compiled perfect-hash table does not
	// match the input keys.
	ErrStaleTable = errors.New("compiled table is stale")
)
