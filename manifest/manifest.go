package manifest

import (
	"errors"
	"fmt"
	"slices"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hupe1980/topicmap/codec"
	"github.com/hupe1980/topicmap/source"
)

const (
	// FileName is the name of the manifest inside a build directory.
	FileName = "manifest.json"
	// CurrentFileName names the release pointer of a remote store.
	CurrentFileName = "CURRENT"
	// CurrentVersion is the artifact format version written by this package.
	CurrentVersion = 1
)

var (
	// ErrIncompatibleVersion is returned for manifests of another format version.
	ErrIncompatibleVersion = errors.New("incompatible manifest version")
	// ErrMalformed is returned for manifests that do not decode.
	ErrMalformed = errors.New("malformed manifest")
	// ErrMismatch is returned when a manifest disagrees with the source registry.
	ErrMismatch = errors.New("manifest does not match source registry")
)

// namespace seeds content-derived build IDs.
var namespace = uuid.MustParse("5b0c7a4e-6d8f-4c1b-9a36-2f1e0d9c8b7a")

// Artifact describes one persisted or compiled structure.
type Artifact struct {
	Count     int    `json:"count"`
	Structure string `json:"structure"`
	File      string `json:"file,omitempty"`
	Size      int64  `json:"size,omitempty"`
	CRC32C    uint32 `json:"crc32c,omitempty"`
}

// Persisted reports whether the artifact is a file of the build directory.
func (a Artifact) Persisted() bool { return a.File != "" }

// Source is the entry of one source.
type Source struct {
	Count    int                 `json:"count"`
	Base     uint32              `json:"base"`
	Size     uint32              `json:"size"`
	Channels map[string]Artifact `json:"channels,omitempty"`
}

// Manifest is the decoded build record.
type Manifest struct {
	Version   int
	BuildID   string
	CreatedAt time.Time
	Sources   map[string]Source
	Combined  *Artifact
}

// New returns an empty manifest of the current version.
func New() *Manifest {
	return &Manifest{Version: CurrentVersion, Sources: make(map[string]Source)}
}

// SourceNames returns the source names in sorted order.
func (m *Manifest) SourceNames() []string {
	names := make([]string, 0, len(m.Sources))
	for name := range m.Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Artifacts returns every persisted artifact, sorted by file name.
func (m *Manifest) Artifacts() []Artifact {
	var out []Artifact
	for _, s := range m.Sources {
		for _, a := range s.Channels {
			if a.Persisted() {
				out = append(out, a)
			}
		}
	}
	if m.Combined != nil && m.Combined.Persisted() {
		out = append(out, *m.Combined)
	}
	slices.SortFunc(out, func(a, b Artifact) int {
		switch {
		case a.File < b.File:
			return -1
		case a.File > b.File:
			return 1
		}
		return 0
	})
	return out
}

// Seal derives BuildID from the content of the manifest, so identical builds
// get identical IDs.
func (m *Manifest) Seal() error {
	m.BuildID = ""
	created := m.CreatedAt
	m.CreatedAt = time.Time{}
	body, err := m.Encode()
	m.CreatedAt = created
	if err != nil {
		return err
	}
	m.BuildID = uuid.NewSHA1(namespace, body).String()
	return nil
}

// Encode returns the indented JSON form with sorted keys and a trailing newline.
func (m *Manifest) Encode() ([]byte, error) {
	obj := make(map[string]any, len(m.Sources)+4)
	for name, s := range m.Sources {
		if slices.Contains(source.ReservedNames, name) {
			return nil, fmt.Errorf("%w: source name %q is reserved", ErrMalformed, name)
		}
		obj[name] = s
	}
	obj["version"] = m.Version
	if m.BuildID != "" {
		obj["build_id"] = m.BuildID
	}
	if !m.CreatedAt.IsZero() {
		obj["created_at"] = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	if m.Combined != nil {
		obj["combined"] = m.Combined
	}

	data, err := codec.Default.MarshalIndent(obj, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a manifest. Every non-reserved field must be a source entry
// with a count. The version is not checked; see Check.
func Decode(data []byte) (*Manifest, error) {
	var raw map[string]gojson.RawMessage
	if err := codec.Default.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	m := &Manifest{Sources: make(map[string]Source)}
	for key, value := range raw {
		var err error
		switch key {
		case "version":
			err = codec.Default.Unmarshal(value, &m.Version)
		case "build_id":
			err = codec.Default.Unmarshal(value, &m.BuildID)
		case "created_at":
			var s string
			if err = codec.Default.Unmarshal(value, &s); err == nil {
				m.CreatedAt, err = time.Parse(time.RFC3339, s)
			}
		case "combined":
			m.Combined = new(Artifact)
			err = codec.Default.Unmarshal(value, m.Combined)
		default:
			err = decodeSource(value, key, m)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrMalformed, key, err)
		}
	}
	if _, ok := raw["version"]; !ok {
		return nil, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	return m, nil
}

func decodeSource(value []byte, name string, m *Manifest) error {
	var fields map[string]gojson.RawMessage
	if err := codec.Default.Unmarshal(value, &fields); err != nil {
		return err
	}
	if _, ok := fields["count"]; !ok {
		return errors.New("missing count")
	}
	var s Source
	if err := codec.Default.Unmarshal(value, &s); err != nil {
		return err
	}
	m.Sources[name] = s
	return nil
}

// Check verifies the format version.
func (m *Manifest) Check() error {
	if m.Version != CurrentVersion {
		return fmt.Errorf("%w: %d (expected %d)", ErrIncompatibleVersion, m.Version, CurrentVersion)
	}
	return nil
}

// Validate checks the version and that every source entry agrees with reg:
// known source, same interval, count within the interval, and channels that
// exist with the registered structure and artifact name.
func (m *Manifest) Validate(reg *source.Registry) error {
	if err := m.Check(); err != nil {
		return err
	}
	for _, name := range m.SourceNames() {
		entry := m.Sources[name]
		src, err := reg.Lookup(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMismatch, err)
		}
		if entry.Base != src.Interval.Base || entry.Size != src.Interval.Size {
			return fmt.Errorf("%w: %s interval [%d+%d) differs from registry %s",
				ErrMismatch, name, entry.Base, entry.Size, src.Interval)
		}
		if entry.Count < 0 || uint64(entry.Count) > uint64(src.Interval.Size) {
			return fmt.Errorf("%w: %s count %d exceeds interval size %d", ErrMismatch, name, entry.Count, src.Interval.Size)
		}
		for chName, a := range entry.Channels {
			ch, ok := src.ChannelByName(chName)
			if !ok {
				return fmt.Errorf("%w: %w: %s.%s", ErrMismatch, source.ErrUnknownChannel, name, chName)
			}
			if a.Structure != ch.Structure.String() {
				return fmt.Errorf("%w: %s.%s structure %q, registry has %q", ErrMismatch, name, chName, a.Structure, ch.Structure)
			}
			if ch.Structure == source.OrderedIndex && a.File != source.ArtifactName(name, chName) {
				return fmt.Errorf("%w: %s.%s file %q", ErrMismatch, name, chName, a.File)
			}
		}
	}
	return nil
}
