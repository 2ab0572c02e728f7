package source

import (
	"errors"
	"fmt"

	"github.com/hupe1980/topicmap/model"
)

// ID identifies a source. IDs are dense indexes into the registry.
type ID uint8

// ChannelID identifies a channel (or event type) within one source.
type ChannelID uint8

const (
	// Binance is the exchange symbol source.
	Binance ID = 0
	// Uniswap is the on-chain pool source.
	Uniswap ID = 1
)

const (
	// BookTicker is the Binance book-ticker stream.
	BookTicker ChannelID = 0
)

const (
	// Swap is the Uniswap swap event.
	Swap ChannelID = 0
)

// KeyKind selects the canonical key representation of a source.
type KeyKind uint8

const (
	// Symbol keys are raw ASCII identifier bytes, taken verbatim.
	Symbol KeyKind = iota + 1
	// Pool32 keys are raw 32-byte identifiers decoded from 0x-prefixed hex.
	Pool32
)

// String returns the key kind name.
func (k KeyKind) String() string {
	switch k {
	case Symbol:
		return "symbol"
	case Pool32:
		return "pool32"
	default:
		return fmt.Sprintf("keykind(%d)", uint8(k))
	}
}

// Structure selects the static map implementation backing a channel.
type Structure uint8

const (
	// PerfectHash channels are compiled into the program.
	PerfectHash Structure = iota + 1
	// OrderedIndex channels are persisted as {source}.{channel}.map artifacts.
	OrderedIndex
)

// String returns the structure name as recorded in manifests.
func (s Structure) String() string {
	switch s {
	case PerfectHash:
		return "phf"
	case OrderedIndex:
		return "fst"
	default:
		return fmt.Sprintf("structure(%d)", uint8(s))
	}
}

// ParseStructure is the inverse of Structure.String.
func ParseStructure(name string) (Structure, error) {
	switch name {
	case "phf":
		return PerfectHash, nil
	case "fst":
		return OrderedIndex, nil
	default:
		return 0, fmt.Errorf("unknown structure %q", name)
	}
}

// Channel describes one channel of a source.
type Channel struct {
	ID        ChannelID
	Name      string
	Structure Structure
}

// Source describes one upstream identifier domain.
type Source struct {
	ID       ID
	Name     string
	Interval model.Interval
	Keys     KeyKind
	Channels []Channel
}

// Channel returns the channel with the given id.
func (s *Source) Channel(id ChannelID) (Channel, bool) {
	for _, ch := range s.Channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}

// ChannelByName returns the channel with the given name.
func (s *Source) ChannelByName(name string) (Channel, bool) {
	for _, ch := range s.Channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

// ArtifactName returns the file name of an ordered-index channel artifact.
func ArtifactName(sourceName, channelName string) string {
	return sourceName + "." + channelName + ".map"
}

// CombinedArtifactName is the file name of the optional merged-namespace map.
const CombinedArtifactName = "topic.map"

// ReservedNames cannot be used as source names because they are top-level
// manifest fields.
var ReservedNames = []string{"version", "build_id", "created_at", "combined"}

var (
	// ErrUnknownSource is returned when a source id or name is not registered.
	ErrUnknownSource = errors.New("unknown source")
	// ErrUnknownChannel is returned when a channel is not registered for a source.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrInvalidRegistry is returned by Validate for inconsistent registries.
	ErrInvalidRegistry = errors.New("invalid source registry")
)
