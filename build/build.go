package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/topicmap/alloc"
	"github.com/hupe1980/topicmap/backend"
	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/internal/hash"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/manifest"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap"
)

type sourceKeys struct {
	src    *source.Source
	assign *alloc.Assignment
	global []alloc.Entry
}

// Run builds the topic map of inputs, keyed by source name, into dir.
//
// Without WithStore, dir is a local directory created on demand. With
// WithStore, dir is the prefix of the build inside the store.
func Run(ctx context.Context, dir string, inputs map[string][]byte, optFns ...Option) (*manifest.Manifest, error) {
	o := applyOptions(optFns)

	store, prefix := o.store, dir
	if store == nil {
		store, prefix = blobstore.NewLocalStore(dir), ""
	}
	log := o.logger.With("dir", dir)

	for name := range inputs {
		if _, err := o.registry.Lookup(name); err != nil {
			return nil, fmt.Errorf("build: %w: %q", ErrUnknownInput, name)
		}
	}

	sets, err := extract(o, inputs)
	if err != nil {
		return nil, err
	}

	globals := make(map[string][]alloc.Entry, len(sets))
	for _, s := range sets {
		globals[s.src.Name] = s.global
	}
	if err := alloc.VerifyDisjoint(globals); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	// The combined namespace is validated before anything is written.
	var combined []alloc.Entry
	if o.combined {
		merged := make([][]alloc.Entry, 0, len(sets))
		for _, s := range sets {
			merged = append(merged, s.global)
		}
		if combined, err = alloc.Merge(merged...); err != nil {
			return nil, fmt.Errorf("build: combined namespace: %w", err)
		}
	}

	// Every artifact is rendered and checked before the store is touched.
	m := manifest.New()
	rel := &release{store: store}
	for _, s := range sets {
		entry := manifest.Source{
			Count:    s.assign.Len(),
			Base:     s.src.Interval.Base,
			Size:     s.src.Interval.Size,
			Channels: make(map[string]manifest.Artifact, len(s.src.Channels)),
		}
		for _, ch := range s.src.Channels {
			a, err := buildChannel(ctx, o, rel, prefix, s, ch)
			if err != nil {
				return nil, err
			}
			entry.Channels[ch.Name] = a
			log.DebugContext(ctx, "channel built", "source", s.src.Name, "channel", ch.Name,
				"structure", a.Structure, "count", a.Count)
		}
		m.Sources[s.src.Name] = entry
	}

	if combined != nil {
		a, err := renderIndex(rel, prefix, source.CombinedArtifactName, combined)
		if err != nil {
			return nil, err
		}
		m.Combined = &a
	}

	if err := m.Seal(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if o.timestamp != nil {
		m.CreatedAt = o.timestamp().UTC()
	}

	if err := rel.publish(ctx); err != nil {
		return nil, err
	}
	if err := manifest.Write(ctx, store, prefix, m); err != nil {
		rel.rollback(ctx)
		return nil, fmt.Errorf("build: write manifest: %w", err)
	}
	log.InfoContext(ctx, "build completed", "build_id", m.BuildID, "sources", len(m.Sources))
	return m, nil
}

func extract(o options, inputs map[string][]byte) ([]sourceKeys, error) {
	sources := o.registry.Sources()
	sets := make([]sourceKeys, 0, len(sources))
	for i := range sources {
		src := &sources[i]
		doc, ok := inputs[src.Name]
		if !ok {
			return nil, fmt.Errorf("build: %w: %s", ErrMissingInput, src.Name)
		}
		ks, err := keys.Extract(src.Keys, doc)
		if err != nil {
			return nil, fmt.Errorf("build: %s: %w", src.Name, err)
		}
		a := alloc.Assign(ks)
		global, err := a.OffsetSource(src.Name, src.Interval)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		o.logger.Debug("keys extracted", "source", src.Name, "keys", a.Len())
		sets = append(sets, sourceKeys{src: src, assign: a, global: global})
	}
	return sets, nil
}

func buildChannel(ctx context.Context, o options, rel *release, prefix string,
	s sourceKeys, ch source.Channel) (manifest.Artifact, error) {
	switch ch.Structure {
	case source.PerfectHash:
		if err := checkCompiled(s, ch); err != nil {
			if o.strict {
				return manifest.Artifact{}, err
			}
			o.logger.WarnContext(ctx, "compiled table differs from input; run go generate ./backend",
				"source", s.src.Name, "channel", ch.Name, "error", err)
		}
		return manifest.Artifact{Count: s.assign.Len(), Structure: ch.Structure.String()}, nil
	case source.OrderedIndex:
		locals, err := s.assign.Locals()
		if err != nil {
			return manifest.Artifact{}, fmt.Errorf("build: %w", err)
		}
		return renderIndex(rel, prefix, source.ArtifactName(s.src.Name, ch.Name), locals)
	default:
		return manifest.Artifact{}, fmt.Errorf("build: channel %s.%s has structure %s", s.src.Name, ch.Name, ch.Structure)
	}
}

// checkCompiled compares the compiled table of a channel with the assignment
// of the current input.
func checkCompiled(s sourceKeys, ch source.Channel) error {
	t, ok := backend.Compiled(s.src.Name, ch.Name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", backend.ErrNotCompiled, s.src.Name, ch.Name)
	}
	if t.Len() != s.assign.Len() {
		return fmt.Errorf("%w: %s.%s has %d keys, input has %d", ErrStaleTable, s.src.Name, ch.Name, t.Len(), s.assign.Len())
	}
	for i, k := range s.assign.Keys() {
		if v, ok := t.Get(k); !ok || int(v) != i {
			return fmt.Errorf("%w: %s.%s key %q", ErrStaleTable, s.src.Name, ch.Name, k)
		}
	}
	return nil
}

// renderIndex encodes entries and stages the result in rel.
func renderIndex(rel *release, prefix, file string, entries []alloc.Entry) (manifest.Artifact, error) {
	var buf bytes.Buffer
	crc := hash.NewCRC32C()
	if err := staticmap.Build(io.MultiWriter(&buf, crc), entries); err != nil {
		return manifest.Artifact{}, fmt.Errorf("build: %s: %w", file, err)
	}
	rel.add(path.Join(prefix, file), buf.Bytes())
	return manifest.Artifact{
		Count:     len(entries),
		Structure: source.OrderedIndex.String(),
		File:      file,
		Size:      int64(buf.Len()),
		CRC32C:    crc.Sum32(),
	}, nil
}
