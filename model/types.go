package model

import (
	"fmt"
	"math"
)

// TopicID is the global identifier of one tracked entity across all sources.
// Consumers use it as a dense array index or routing key.
type TopicID uint32

// LocalID is a dense, zero-based identifier within one (source, channel) pair.
// It is assigned in byte-lexicographic order of the canonical keys.
type LocalID uint32

// Interval is a reserved, contiguous range of TopicIDs owned by one source.
type Interval struct {
	Base uint32 `json:"base"`
	Size uint32 `json:"size"`
}

// NewInterval creates an interval starting at base holding size IDs.
func NewInterval(base, size uint32) Interval {
	return Interval{Base: base, Size: size}
}

// End returns the first ID after the interval.
// It is computed in 64 bits so that intervals touching MaxUint32 are representable.
func (iv Interval) End() uint64 {
	return uint64(iv.Base) + uint64(iv.Size)
}

// Valid reports whether the interval is non-empty and fits the uint32 ID space.
func (iv Interval) Valid() bool {
	return iv.Size > 0 && iv.End() <= uint64(math.MaxUint32)+1
}

// Contains reports whether id belongs to the interval.
func (iv Interval) Contains(id TopicID) bool {
	return uint64(id) >= uint64(iv.Base) && uint64(id) < iv.End()
}

// Overlaps reports whether two intervals share at least one ID.
func (iv Interval) Overlaps(o Interval) bool {
	return uint64(iv.Base) < o.End() && uint64(o.Base) < iv.End()
}

// Global offsets a local ID into the interval.
// The second result is false when local does not fit the interval.
func (iv Interval) Global(local LocalID) (TopicID, bool) {
	if uint32(local) >= iv.Size {
		return 0, false
	}
	return TopicID(iv.Base + uint32(local)), true
}

// String returns the half-open range notation of the interval.
func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Base, iv.End())
}
