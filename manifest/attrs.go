package manifest

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Option describes a single configurable toggle a parcel exposes. Equality
// is by name.
type Option struct {
	Name        string
	Type        string // uninterpreted type label, e.g. "bool", "boolean"
	Description string
	Default     any
	Value       any // per-install configuration, not part of the canonical document
}

// Equal reports whether two Options share a name.
func (o Option) Equal(other Option) bool { return o.Name == other.Name }

// Setting describes a single named runtime setting. Equality is by name.
type Setting struct {
	Name  string
	Value any
}

// Equal reports whether two Settings share a name.
func (s Setting) Equal(other Setting) bool { return s.Name == other.Name }

// File is a named blob of bytes embedded in a parcel. Name is always the
// basename of wherever the content originated.
type File struct {
	Name  string
	Bytes []byte
}

// NewFileFromPath reads path from disk and returns a File named after its
// basename.
func NewFileFromPath(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.Wrapf(ErrFileNotFound, "%s", path)
		}
		return File{}, errors.Wrapf(err, "reading %s", path)
	}
	return File{Name: filepath.Base(path), Bytes: data}, nil
}

// NewFileFromBytes constructs a File directly from in-memory content. name
// is reduced to its basename, matching the filesystem-sourced constructor.
func NewFileFromBytes(name string, data []byte) File {
	return File{Name: filepath.Base(name), Bytes: data}
}
