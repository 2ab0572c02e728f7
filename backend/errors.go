package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyLoaded is returned by a second Load call. Live state is kept.
	ErrAlreadyLoaded = errors.New("backend already loaded")

	// ErrCorruptArtifact is returned when an artifact disagrees with its
	// manifest entry or does not decode.
	ErrCorruptArtifact = errors.New("corrupt artifact")

	// ErrNotOrdered is returned when an ordered backend is created for a source
	// without ordered-index channels.
	ErrNotOrdered = errors.New("source has no ordered-index channel")

	// ErrNotCompiled is returned when the program carries no table for a
	// perfect-hash channel.
	ErrNotCompiled = errors.New("perfect-hash table not compiled in")
)

// LoadError describes the failed load of one artifact.
type LoadError struct {
	Source string
	File   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("backend: load %s (%s): %v", e.Source, e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
