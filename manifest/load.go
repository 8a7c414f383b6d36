package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Load reads a manifest document from disk. Every basename listed in
// `files` and in `service_definition` is resolved against path's
// directory and read eagerly into File objects. The service-definition
// file is added to Files if it wasn't already listed there.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: reading %s", path)
	}

	m, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrManifestMalformed, err.Error())
	}

	dir := filepath.Dir(path)
	for _, name := range raw.Files {
		f, err := NewFileFromPath(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if err := m.AddFile(f); err != nil {
			return nil, err
		}
	}

	if raw.ServiceDefinition != "" && m.GetFile(raw.ServiceDefinition) == nil {
		f, err := NewFileFromPath(filepath.Join(dir, raw.ServiceDefinition))
		if err != nil {
			return nil, err
		}
		if err := m.AddFile(f); err != nil {
			return nil, err
		}
	}

	return m, nil
}
