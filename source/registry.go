package source

import (
	"fmt"
	"slices"

	"github.com/hupe1980/topicmap/model"
)

// Registry is an immutable, ordered table of sources indexed by ID.
type Registry struct {
	sources []Source
}

// Default is the process-wide source table.
var Default = MustRegistry(
	Source{
		ID:       Binance,
		Name:     "binance",
		Interval: model.NewInterval(0, 10_000),
		Keys:     Symbol,
		Channels: []Channel{
			{ID: BookTicker, Name: "book_ticker", Structure: PerfectHash},
		},
	},
	Source{
		ID:       Uniswap,
		Name:     "uniswap",
		Interval: model.NewInterval(10_000, 25_000),
		Keys:     Pool32,
		Channels: []Channel{
			{ID: Swap, Name: "swap", Structure: OrderedIndex},
		},
	},
)

// NewRegistry validates sources and returns a registry over them.
// Source IDs must equal their position in the argument list.
func NewRegistry(sources ...Source) (*Registry, error) {
	r := &Registry{sources: slices.Clone(sources)}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid table.
func MustRegistry(sources ...Source) *Registry {
	r, err := NewRegistry(sources...)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks the invariants of the table: dense IDs, unique non-reserved
// names, valid and pairwise disjoint intervals, known key kinds, and at least
// one uniquely named channel per source.
func (r *Registry) Validate() error {
	if len(r.sources) == 0 {
		return fmt.Errorf("%w: no sources", ErrInvalidRegistry)
	}

	names := make(map[string]struct{}, len(r.sources))
	for i, s := range r.sources {
		if int(s.ID) != i {
			return fmt.Errorf("%w: source %q has id %d at position %d", ErrInvalidRegistry, s.Name, s.ID, i)
		}
		if s.Name == "" {
			return fmt.Errorf("%w: source %d has no name", ErrInvalidRegistry, s.ID)
		}
		if slices.Contains(ReservedNames, s.Name) {
			return fmt.Errorf("%w: source name %q is reserved", ErrInvalidRegistry, s.Name)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("%w: duplicate source name %q", ErrInvalidRegistry, s.Name)
		}
		names[s.Name] = struct{}{}

		if !s.Interval.Valid() {
			return fmt.Errorf("%w: source %q has invalid interval %s", ErrInvalidRegistry, s.Name, s.Interval)
		}
		if s.Keys != Symbol && s.Keys != Pool32 {
			return fmt.Errorf("%w: source %q has unknown key kind %s", ErrInvalidRegistry, s.Name, s.Keys)
		}
		if err := validateChannels(&r.sources[i]); err != nil {
			return err
		}

		for _, prev := range r.sources[:i] {
			if s.Interval.Overlaps(prev.Interval) {
				return fmt.Errorf("%w: interval %s of %q overlaps %s of %q",
					ErrInvalidRegistry, s.Interval, s.Name, prev.Interval, prev.Name)
			}
		}
	}
	return nil
}

func validateChannels(s *Source) error {
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: source %q has no channels", ErrInvalidRegistry, s.Name)
	}
	ids := make(map[ChannelID]struct{}, len(s.Channels))
	names := make(map[string]struct{}, len(s.Channels))
	for _, ch := range s.Channels {
		if ch.Name == "" {
			return fmt.Errorf("%w: source %q has an unnamed channel", ErrInvalidRegistry, s.Name)
		}
		if _, dup := ids[ch.ID]; dup {
			return fmt.Errorf("%w: source %q has duplicate channel id %d", ErrInvalidRegistry, s.Name, ch.ID)
		}
		if _, dup := names[ch.Name]; dup {
			return fmt.Errorf("%w: source %q has duplicate channel %q", ErrInvalidRegistry, s.Name, ch.Name)
		}
		if ch.Structure != PerfectHash && ch.Structure != OrderedIndex {
			return fmt.Errorf("%w: channel %s.%s has unknown structure", ErrInvalidRegistry, s.Name, ch.Name)
		}
		ids[ch.ID] = struct{}{}
		names[ch.Name] = struct{}{}
	}
	return nil
}

// Len returns the number of sources.
func (r *Registry) Len() int { return len(r.sources) }

// Sources returns the sources in ID order. The slice must not be modified.
func (r *Registry) Sources() []Source { return r.sources }

// Get returns the source with the given id.
func (r *Registry) Get(id ID) (*Source, error) {
	if int(id) >= len(r.sources) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownSource, id)
	}
	return &r.sources[id], nil
}

// Lookup returns the source with the given name.
func (r *Registry) Lookup(name string) (*Source, error) {
	for i := range r.sources {
		if r.sources[i].Name == name {
			return &r.sources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Resolve maps source and channel names to their IDs.
func (r *Registry) Resolve(sourceName, channelName string) (*Source, Channel, error) {
	s, err := r.Lookup(sourceName)
	if err != nil {
		return nil, Channel{}, err
	}
	ch, ok := s.ChannelByName(channelName)
	if !ok {
		return nil, Channel{}, fmt.Errorf("%w: %s.%s", ErrUnknownChannel, sourceName, channelName)
	}
	return s, ch, nil
}
