package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/topicmap/blobstore"
	"github.com/hupe1980/topicmap/internal/compress"
	"github.com/hupe1980/topicmap/internal/hash"
	"github.com/hupe1980/topicmap/internal/resource"
	"github.com/hupe1980/topicmap/manifest"
)

var (
	// ErrChecksumMismatch is returned when an artifact does not match the
	// size or CRC32C recorded in its manifest.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")

	// ErrNoRelease is returned by Fetch when the remote store has no CURRENT.
	ErrNoRelease = manifest.ErrNoRelease
)

// Publish uploads the build in local to remote and makes it the current
// release.
func Publish(ctx context.Context, local, remote blobstore.BlobStore, optFns ...Option) (*manifest.Manifest, error) {
	o := applyOptions(optFns)

	raw, err := blobstore.ReadAll(ctx, local, manifest.FileName)
	if err != nil {
		return nil, fmt.Errorf("publish: read manifest: %w", err)
	}
	m, err := manifest.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	if err := m.Check(); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	if m.BuildID == "" {
		return nil, fmt.Errorf("publish: %w: missing build_id", manifest.ErrMalformed)
	}
	log := o.logger.With("build_id", m.BuildID)
	rc := o.controller()

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range m.Artifacts() {
		g.Go(func() error {
			release, err := reserve(gctx, rc, a)
			if err != nil {
				return fmt.Errorf("publish: %s: %w", a.File, err)
			}
			defer release()

			data, err := blobstore.ReadAll(gctx, local, a.File)
			if err != nil {
				return fmt.Errorf("publish: read %s: %w", a.File, err)
			}
			if err := verify(a, data); err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			frame, err := compress.Encode(o.codec, data)
			if err != nil {
				return fmt.Errorf("publish: compress %s: %w", a.File, err)
			}
			if err := rc.AcquireIO(gctx, len(frame)); err != nil {
				return err
			}
			if err := remote.Put(gctx, path.Join(m.BuildID, a.File), frame); err != nil {
				return fmt.Errorf("publish: upload %s: %w", a.File, err)
			}
			log.DebugContext(gctx, "artifact uploaded", "file", a.File, "size", a.Size, "compressed", len(frame))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := remote.Put(ctx, path.Join(m.BuildID, manifest.FileName), raw); err != nil {
		return nil, fmt.Errorf("publish: upload manifest: %w", err)
	}
	if err := manifest.WriteCurrent(ctx, remote, m.BuildID); err != nil {
		return nil, fmt.Errorf("publish: swap CURRENT: %w", err)
	}
	log.InfoContext(ctx, "release published", "files", len(m.Artifacts()), "codec", o.codec.String())
	return m, nil
}

// Fetch downloads the current release of remote into local.
func Fetch(ctx context.Context, remote, local blobstore.BlobStore, optFns ...Option) (*manifest.Manifest, error) {
	o := applyOptions(optFns)

	id, err := manifest.ReadCurrent(ctx, remote)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	raw, err := blobstore.ReadAll(ctx, remote, path.Join(id, manifest.FileName))
	if err != nil {
		return nil, fmt.Errorf("fetch: read manifest of %s: %w", id, err)
	}
	m, err := manifest.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if err := m.Check(); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if m.BuildID != id {
		return nil, fmt.Errorf("fetch: %w: CURRENT is %s, manifest is %s", manifest.ErrMismatch, id, m.BuildID)
	}
	log := o.logger.With("build_id", id)
	rc := o.controller()

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range m.Artifacts() {
		g.Go(func() error {
			release, err := reserve(gctx, rc, a)
			if err != nil {
				return fmt.Errorf("fetch: %s: %w", a.File, err)
			}
			defer release()

			frame, err := blobstore.ReadAll(gctx, remote, path.Join(id, a.File))
			if err != nil {
				return fmt.Errorf("fetch: download %s: %w", a.File, err)
			}
			if err := rc.AcquireIO(gctx, len(frame)); err != nil {
				return err
			}
			data, err := compress.Decode(frame)
			if err != nil {
				return fmt.Errorf("fetch: %s: %w: %w", a.File, ErrChecksumMismatch, err)
			}
			if err := verify(a, data); err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			if err := local.Put(gctx, a.File, data); err != nil {
				return fmt.Errorf("fetch: write %s: %w", a.File, err)
			}
			log.DebugContext(gctx, "artifact fetched", "file", a.File, "size", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := local.Put(ctx, manifest.FileName, raw); err != nil {
		return nil, fmt.Errorf("fetch: write manifest: %w", err)
	}
	log.InfoContext(ctx, "release fetched", "files", len(m.Artifacts()))
	return m, nil
}

func verify(a manifest.Artifact, data []byte) error {
	if int64(len(data)) != a.Size {
		return fmt.Errorf("%w: %s has %d bytes, manifest records %d", ErrChecksumMismatch, a.File, len(data), a.Size)
	}
	if sum := hash.CRC32C(data); sum != a.CRC32C {
		return fmt.Errorf("%w: %s crc32c %08x, manifest records %08x", ErrChecksumMismatch, a.File, sum, a.CRC32C)
	}
	return nil
}

// reserve takes a transfer slot and the memory for one artifact.
func reserve(ctx context.Context, rc *resource.Controller, a manifest.Artifact) (func(), error) {
	if err := rc.AcquireTransfer(ctx); err != nil {
		return nil, err
	}
	if err := rc.AcquireMemory(ctx, a.Size); err != nil {
		rc.ReleaseTransfer()
		return nil, err
	}
	return func() {
		rc.ReleaseMemory(a.Size)
		rc.ReleaseTransfer()
	}, nil
}
