package topicmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/topicmap/source"
)

var (
	// ErrNoStore is returned by Load when no artifact location is configured.
	ErrNoStore = errors.New("no artifact store configured")
)

// ErrBackendUnavailable reports that a source could not be made available.
//
// The underlying load error can be accessed via errors.Unwrap.
type ErrBackendUnavailable struct {
	Source source.ID
	Name   string
	cause  error
}

func (e *ErrBackendUnavailable) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Name, e.cause)
}

func (e *ErrBackendUnavailable) Unwrap() error { return e.cause }
