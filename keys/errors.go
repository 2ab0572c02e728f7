package keys

import "errors"

var (
	// ErrInvalidDocument is returned when a snapshot is not valid JSON or does
	// not have the shape its source requires.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidPoolID is returned when a literal is not a 0x-prefixed
	// 64-digit hex pool identifier.
	ErrInvalidPoolID = errors.New("invalid pool id")
)
