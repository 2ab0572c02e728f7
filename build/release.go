package build

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/topicmap/blobstore"
)

// release holds the rendered artifacts of one build until they are published
// together. A failed publish restores what the store held before.
type release struct {
	store blobstore.BlobStore
	files []*releaseFile
}

type releaseFile struct {
	name string
	data []byte

	prev      []byte
	existed   bool
	committed bool
}

func (r *release) add(name string, data []byte) {
	r.files = append(r.files, &releaseFile{name: name, data: data})
}

// publish writes every artifact to a pending blob and commits them only once
// all writes succeeded.
func (r *release) publish(ctx context.Context) error {
	for _, f := range r.files {
		prev, err := blobstore.ReadAll(ctx, r.store, f.name)
		switch {
		case err == nil:
			f.prev, f.existed = prev, true
		case errors.Is(err, blobstore.ErrNotFound):
		default:
			return fmt.Errorf("build: read previous %s: %w", f.name, err)
		}
	}

	pending := make([]blobstore.WritableBlob, 0, len(r.files))
	discard := func() {
		for i, w := range pending {
			abort(ctx, r.store, r.files[i].name, w)
		}
	}
	for _, f := range r.files {
		w, err := r.store.Create(ctx, f.name)
		if err != nil {
			discard()
			return fmt.Errorf("build: create %s: %w", f.name, err)
		}
		pending = append(pending, w)
		if _, err := w.Write(f.data); err != nil {
			discard()
			return fmt.Errorf("build: write %s: %w", f.name, err)
		}
	}

	for i, w := range pending {
		if err := w.Close(); err != nil {
			// The rename may have happened before the error.
			r.files[i].committed = true
			for j := i + 1; j < len(pending); j++ {
				abort(ctx, r.store, r.files[j].name, pending[j])
			}
			r.rollback(ctx)
			return fmt.Errorf("build: commit %s: %w", r.files[i].name, err)
		}
		r.files[i].committed = true
	}
	return nil
}

// rollback puts back the previous content of every committed artifact.
func (r *release) rollback(ctx context.Context) {
	for _, f := range r.files {
		if !f.committed {
			continue
		}
		if f.existed {
			_ = r.store.Put(ctx, f.name, f.prev)
		} else {
			_ = r.store.Delete(ctx, f.name)
		}
		f.committed = false
	}
}

func abort(ctx context.Context, store blobstore.BlobStore, name string, w blobstore.WritableBlob) {
	if a, ok := w.(blobstore.Aborter); ok {
		_ = a.Abort()
		return
	}
	_ = w.Close()
	_ = store.Delete(ctx, name)
}
