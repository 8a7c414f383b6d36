// Package atomicio provides exclusive-create and atomic-rename file
// writing, for the places that require exclusive-create-unless-overwrite
// semantics: envelope files and signing key files.
package atomicio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const atomicPrefix = ".parcel.atomic."

// ManagedWrite wraps a file opened for writing such that Close can commit
// (via an atomic rename, if needed) or the caller can Rollback to discard
// it.
type ManagedWrite struct {
	io.WriteCloser
	closeFunc    func() error
	rollbackFunc func() error
	closed       bool
}

// Close commits the write, performing the pending rename (if any).
func (w *ManagedWrite) Close() error {
	return w.closeWith(w.closeFunc)
}

// Rollback discards the write, removing any temporary or partial file.
func (w *ManagedWrite) Rollback() error {
	return w.closeWith(w.rollbackFunc)
}

func (w *ManagedWrite) closeWith(f func() error) error {
	if w.closed {
		return nil
	}
	if err := w.WriteCloser.Close(); err != nil {
		return err
	}
	w.closed = true
	if f != nil {
		return f()
	}
	return nil
}

// Create opens path for exclusive-create writing with the given
// permission bits, unless overwrite is true, in which case an existing
// file is truncated in place.
func Create(path string, perm os.FileMode, overwrite bool) (*ManagedWrite, error) {
	if overwrite {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
		if err != nil {
			return nil, errors.Wrapf(err, "atomicio: opening %s for overwrite", path)
		}
		return &ManagedWrite{WriteCloser: f}, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "atomicio: creating %s", path)
	}
	return &ManagedWrite{
		WriteCloser: f,
		rollbackFunc: func() error {
			return os.Remove(path)
		},
	}, nil
}

// CreateAtomic writes to a temporary sibling of path and renames it into
// place on Close, so a reader never observes a partially-written file.
// Unless overwrite is true, path must not already exist.
func CreateAtomic(path string, perm os.FileMode, overwrite bool) (*ManagedWrite, error) {
	if !overwrite {
		if _, err := os.Lstat(path); err == nil {
			return nil, errors.Errorf("atomicio: %s already exists", path)
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "atomicio: checking %s", path)
		}
	}

	tmp := filepath.Join(filepath.Dir(path), atomicPrefix+filepath.Base(path))
	_ = os.Remove(tmp) // clear any stale temp file left by a prior crashed write
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "atomicio: creating temp file %s", tmp)
	}
	return &ManagedWrite{
		WriteCloser: f,
		closeFunc: func() error {
			return errors.Wrapf(os.Rename(tmp, path), "atomicio: renaming %s to %s", tmp, path)
		},
		rollbackFunc: func() error {
			return os.Remove(tmp)
		},
	}, nil
}
