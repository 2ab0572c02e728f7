package mmap

import "errors"

// AccessPattern is a hint about how mapped data will be read.
type AccessPattern int

const (
	// AccessDefault clears earlier advice.
	AccessDefault AccessPattern = iota
	// AccessRandom expects point lookups, the query path of a loaded map.
	AccessRandom
	// AccessWillNeed asks the kernel to fault the pages in ahead of use.
	AccessWillNeed
)

var (
	// ErrClosed is returned for reads through a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files larger than the address space.
	ErrInvalidSize = errors.New("mmap: invalid file size")
)
