package main

import (
	"errors"
	"fmt"
	"io"
	"path"
	"slices"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/internal/hash"
	"github.com/hupe1980/topicmap/keys"
	"github.com/hupe1980/topicmap/manifest"
	"github.com/hupe1980/topicmap/source"
	"github.com/hupe1980/topicmap/staticmap"
	"github.com/spf13/cobra"
)

var inspectEntries bool

// errInspectFailed is returned when at least one artifact failed verification.
var errInspectFailed = errors.New("inspection found problems")

func init() {
	cmd := newInspectCmd()
	cmd.Flags().BoolVar(&inspectEntries, "entries", false, "List every key and ID of ordered artifacts")
	rootCmd.AddCommand(cmd)
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dir>",
		Short: "Print and verify a build directory",
		Long: `The inspect command prints the manifest of a build directory and checks
every artifact against it: size, CRC32C and entry count.

Example:
  topicmap inspect ./out
  topicmap inspect ./out --entries`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args)
		},
	}
}

// artifactReport is the verification result of one artifact.
type artifactReport struct {
	File    string `json:"file"`
	Entries int    `json:"entries"`
	Problem string `json:"problem,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := blobstore.NewLocalStore(args[0])
	m, err := manifest.Read(ctx, store, ".")
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	var reports []artifactReport
	failed := false
	check := func(a manifest.Artifact, kind source.KeyKind) error {
		r := artifactReport{File: a.File}
		idx, err := openArtifact(cmd, store, a)
		if err != nil {
			r.Problem = err.Error()
			failed = true
			reports = append(reports, r)
			return nil
		}
		r.Entries = idx.Len()
		reports = append(reports, r)
		if inspectEntries && !jsonOut {
			fmt.Fprintf(w, "  %s:\n", a.File)
			if err := printEntries(w, idx, kind); err != nil {
				return err
			}
		}
		return nil
	}

	if err := m.Validate(source.Default); err != nil {
		failed = true
		fmt.Fprintf(cmd.ErrOrStderr(), "manifest: %v\n", err)
	}

	if !jsonOut {
		fmt.Fprintf(w, "version:  %d\n", m.Version)
		fmt.Fprintf(w, "build_id: %s\n", m.BuildID)
		if !m.CreatedAt.IsZero() {
			fmt.Fprintf(w, "created:  %s\n", m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
	}
	for _, name := range m.SourceNames() {
		s := m.Sources[name]
		if !jsonOut {
			fmt.Fprintf(w, "%s: %d keys in [%d, %d)\n", name, s.Count, s.Base, uint64(s.Base)+uint64(s.Size))
		}
		kind := source.Symbol
		if src, err := source.Default.Lookup(name); err == nil {
			kind = src.Keys
		}
		for _, chName := range sortedChannels(s) {
			a := s.Channels[chName]
			if !jsonOut {
				fmt.Fprintf(w, "  %-12s %-3s %d", chName, a.Structure, a.Count)
				if a.Persisted() {
					fmt.Fprintf(w, "  %s (%d bytes, crc32c %08x)", a.File, a.Size, a.CRC32C)
				}
				fmt.Fprintln(w)
			}
			if a.Persisted() {
				if err := check(a, kind); err != nil {
					return err
				}
			}
		}
	}
	if m.Combined != nil {
		if !jsonOut {
			fmt.Fprintf(w, "combined: %d keys  %s (%d bytes)\n", m.Combined.Count, m.Combined.File, m.Combined.Size)
		}
		if err := check(*m.Combined, 0); err != nil {
			return err
		}
	}

	if jsonOut {
		if err := printJSON(w, map[string]any{"build_id": m.BuildID, "version": m.Version, "artifacts": reports}); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.Problem != "" {
				fmt.Fprintf(w, "FAIL %s: %s\n", r.File, r.Problem)
			}
		}
	}
	if failed {
		return errInspectFailed
	}
	return nil
}

func openArtifact(cmd *cobra.Command, store blobstore.BlobStore, a manifest.Artifact) (*staticmap.Map, error) {
	data, err := blobstore.ReadAll(cmd.Context(), store, path.Clean(a.File))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != a.Size {
		return nil, fmt.Errorf("size %d, manifest records %d", len(data), a.Size)
	}
	if sum := hash.CRC32C(data); sum != a.CRC32C {
		return nil, fmt.Errorf("crc32c %08x, manifest records %08x", sum, a.CRC32C)
	}
	idx, err := staticmap.Load(data)
	if err != nil {
		return nil, err
	}
	if idx.Len() != a.Count {
		return nil, fmt.Errorf("%d entries, manifest records %d", idx.Len(), a.Count)
	}
	return idx, nil
}

// printEntries lists the entries of idx. Pool keys are printed as hex;
// kind 0 guesses per key for the combined map.
func printEntries(w io.Writer, idx *staticmap.Map, kind source.KeyKind) error {
	var buf []byte
	return idx.Range(func(key []byte, id uint32) bool {
		buf = buf[:0]
		if kind == source.Pool32 || (kind == 0 && len(key) == keys.PoolSize) {
			var p keys.PoolID
			copy(p[:], key)
			buf = p.AppendHex(buf)
		} else {
			buf = append(buf, key...)
		}
		fmt.Fprintf(w, "    %s\t%d\n", buf, id)
		return true
	})
}

func sortedChannels(s manifest.Source) []string {
	names := make([]string, 0, len(s.Channels))
	for name := range s.Channels {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
