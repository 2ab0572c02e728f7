package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// TempSuffix is appended to the final path while an AtomicFile is being written.
const TempSuffix = ".tmp"

// ErrFinished is returned when writing to an AtomicFile after Commit or Abort.
var ErrFinished = errors.New("fs: atomic file already finished")

// AtomicFile is written under path+TempSuffix and becomes visible under path
// only after Commit. Abort (or a failed Commit) removes the temporary file, so
// a failed write never leaves a partial artifact behind.
type AtomicFile struct {
	fsys     FileSystem
	f        File
	path     string
	tmp      string
	finished bool
}

// CreateAtomic starts an atomic write of path.
func CreateAtomic(fsys FileSystem, path string) (*AtomicFile, error) {
	if fsys == nil {
		fsys = Default
	}
	tmp := path + TempSuffix
	f, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &AtomicFile{fsys: fsys, f: f, path: path, tmp: tmp}, nil
}

// Name returns the final path of the file.
func (a *AtomicFile) Name() string { return a.path }

// Write implements io.Writer.
func (a *AtomicFile) Write(p []byte) (int, error) {
	if a.finished {
		return 0, ErrFinished
	}
	return a.f.Write(p)
}

// Commit syncs and closes the temporary file, renames it over the final path
// and syncs the parent directory.
func (a *AtomicFile) Commit() error {
	if a.finished {
		return ErrFinished
	}
	a.finished = true

	if err := a.f.Sync(); err != nil {
		_ = a.f.Close()
		_ = a.fsys.Remove(a.tmp)
		return err
	}
	if err := a.f.Close(); err != nil {
		_ = a.fsys.Remove(a.tmp)
		return err
	}
	if err := a.fsys.Rename(a.tmp, a.path); err != nil {
		_ = a.fsys.Remove(a.tmp)
		return err
	}
	return SyncDir(a.fsys, filepath.Dir(a.path))
}

// Abort discards the temporary file. It is a no-op after Commit.
func (a *AtomicFile) Abort() error {
	if a.finished {
		return nil
	}
	a.finished = true
	_ = a.f.Close()
	return a.fsys.Remove(a.tmp)
}

// WriteFileAtomic writes data to path through an AtomicFile.
func WriteFileAtomic(fsys FileSystem, path string, data []byte) error {
	af, err := CreateAtomic(fsys, path)
	if err != nil {
		return err
	}
	if _, err := af.Write(data); err != nil {
		_ = af.Abort()
		return err
	}
	return af.Commit()
}

// SyncDir fsyncs a directory so that a preceding rename is durable.
func SyncDir(fsys FileSystem, dir string) error {
	if fsys == nil {
		fsys = Default
	}
	f, err := fsys.OpenFile(dir, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
