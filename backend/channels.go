package backend

import (
	"errors"
	"io"

	"github.com/hupe1980/topicmap/model"
	"github.com/hupe1980/topicmap/source"
)

// Channels routes each channel of a source to its own backend, for sources
// that mix compiled and ordered channels.
type Channels struct {
	routes []Backend // indexed by channel ID
}

var _ Backend = (*Channels)(nil)

// NewChannels returns a backend dispatching on the channel ID.
func NewChannels(routes map[source.ChannelID]Backend) *Channels {
	n := 0
	for ch := range routes {
		n = max(n, int(ch)+1)
	}
	c := &Channels{routes: make([]Backend, n)}
	for ch, b := range routes {
		c.routes[ch] = b
	}
	return c
}

// Resolve implements Backend.
func (c *Channels) Resolve(ch source.ChannelID, key []byte) (model.LocalID, bool) {
	if int(ch) >= len(c.routes) || c.routes[ch] == nil {
		return 0, false
	}
	return c.routes[ch].Resolve(ch, key)
}

// Close closes every routed backend that holds resources. A backend serving
// several channels is closed once.
func (c *Channels) Close() error {
	seen := make(map[io.Closer]bool)
	var errs []error
	for _, b := range c.routes {
		cl, ok := b.(io.Closer)
		if !ok || seen[cl] {
			continue
		}
		seen[cl] = true
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}
