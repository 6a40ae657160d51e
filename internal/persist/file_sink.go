// Package persist supplies the concrete, file-backed implementation of the
// store's optional persistence sink: a write-replace file that is never
// observed half-written.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/magentadb/internal/errors"
	"github.com/allisson/magentadb/internal/snapshot"
	"github.com/allisson/magentadb/internal/store"
)

// FileSink persists a store's state to a snapshot file at Path using a
// write-replace discipline: the new content is written in full to a sibling
// temporary file, fsynced, then renamed over the destination. A reader can
// therefore only ever observe the previous complete snapshot or the next
// one, never a partial write.
type FileSink struct {
	Path string
}

// NewFileSink creates a FileSink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Persist implements store.Persister. The core treats this sink as an opaque
// byte writer; any underlying failure is surfaced as ErrIO.
func (f *FileSink) Persist(s *store.Store) error {
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrIO, err.Error())
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := snapshot.Save(tmp, s.ExportSnapshot(), time.Now()); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrIO, err.Error())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrIO, err.Error())
	}

	if err := os.Rename(tmpPath, f.Path); err != nil {
		return errors.Wrap(errors.ErrIO, fmt.Sprintf("rename %s to %s: %s", tmpPath, f.Path, err.Error()))
	}
	return nil
}
