package staticmap

import "errors"

var (
	// ErrOutOfOrder is returned when a key is not strictly greater than the
	// previously inserted key. Equal keys are rejected too.
	ErrOutOfOrder = errors.New("keys not inserted in strictly increasing order")

	// ErrIDRange is returned when a stored value does not fit a topic ID.
	ErrIDRange = errors.New("value exceeds topic id range")

	// ErrCorrupt is returned when data cannot be decoded as an index.
	ErrCorrupt = errors.New("corrupt index")

	// ErrClosed is returned by operations on a closed builder.
	ErrClosed = errors.New("builder closed")
)
