package alloc

import (
	"errors"
	"fmt"

	"github.com/hupe1980/topicmap/model"
)

var (
	// ErrIntervalOverflow is returned when a source has more keys than its
	// reserved interval can hold.
	ErrIntervalOverflow = errors.New("interval overflow")

	// ErrDuplicateKey is returned when merging namespaces finds the same key
	// in two sources.
	ErrDuplicateKey = errors.New("duplicate key across sources")

	// ErrAliasedID is returned when two entries resolve to the same topic ID.
	ErrAliasedID = errors.New("aliased topic id")
)

// OverflowError describes an interval overflow.
//
// errors.Is(err, ErrIntervalOverflow) reports true for it.
type OverflowError struct {
	Source   string
	Count    int
	Interval model.Interval
}

func (e *OverflowError) Error() string {
	name := e.Source
	if name == "" {
		name = "source"
	}
	return fmt.Sprintf("%s: %d keys exceed interval %s of size %d", name, e.Count, e.Interval, e.Interval.Size)
}

func (e *OverflowError) Unwrap() error { return ErrIntervalOverflow }
