package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/hupe1980/topicmap/blobstore"
)

// ErrNoRelease is returned when a store has no CURRENT pointer.
var ErrNoRelease = errors.New("no release published")

// Read loads and decodes the manifest of a build directory or release prefix.
func Read(ctx context.Context, store blobstore.BlobStore, dir string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, store, path.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Write encodes m and stores it atomically. It is the last write of a build.
func Write(ctx context.Context, store blobstore.BlobStore, dir string, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return store.Put(ctx, path.Join(dir, FileName), data)
}

// ReadCurrent returns the build ID the CURRENT pointer of store refers to.
func ReadCurrent(ctx context.Context, store blobstore.BlobStore) (string, error) {
	data, err := blobstore.ReadAll(ctx, store, CurrentFileName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", ErrNoRelease
		}
		return "", err
	}
	id := string(bytes.TrimSpace(data))
	if id == "" || id != path.Base(id) {
		return "", fmt.Errorf("%w: CURRENT holds %q", ErrMalformed, id)
	}
	return id, nil
}

// WriteCurrent atomically points CURRENT at buildID.
func WriteCurrent(ctx context.Context, store blobstore.BlobStore, buildID string) error {
	return store.Put(ctx, CurrentFileName, []byte(buildID+"\n"))
}
