package manifest

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/spec"
	"github.com/homeland-social/parcel/version"
)

// ErrManifestMalformed is raised when a manifest document cannot be
// decoded as JSON.
var ErrManifestMalformed = errors.New("manifest: malformed document")

type optionDoc struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default"`
}

// canonicalDoc mirrors the required top-level key order for a manifest
// document. Field order in the struct is significant: encoding/json
// serializes struct fields in declaration order.
type canonicalDoc struct {
	Name              string      `json:"name"`
	Version           string      `json:"version"`
	UUID              string      `json:"uuid"`
	Description       string      `json:"description,omitempty"`
	Options           []optionDoc `json:"options"`
	Settings          []string    `json:"settings"`
	Requires          []string    `json:"requires"`
	Conflicts         []string    `json:"conflicts"`
	Files             []string    `json:"files"`
	ServiceDefinition string      `json:"service_definition,omitempty"`
}

func (m *Manifest) canonical() canonicalDoc {
	opts := make([]optionDoc, len(m.options))
	for i, o := range m.options {
		// value is intentionally dropped: defaults are catalog-level
		// facts, per-install value is configuration.
		opts[i] = optionDoc{Name: o.Name, Type: o.Type, Description: o.Description, Default: o.Default}
	}
	settings := make([]string, len(m.settings))
	for i, s := range m.settings {
		settings[i] = s.Name
	}
	requires := make([]string, len(m.requires))
	for i, s := range m.requires {
		requires[i] = s.String()
	}
	conflicts := make([]string, len(m.conflicts))
	for i, s := range m.conflicts {
		conflicts[i] = s.String()
	}
	files := make([]string, len(m.files))
	for i, f := range m.files {
		files[i] = f.Name
	}
	return canonicalDoc{
		Name: m.Name(), Version: m.Version().String(), UUID: m.UUID(),
		Description: m.Description, Options: opts, Settings: settings,
		Requires: requires, Conflicts: conflicts, Files: files,
		ServiceDefinition: m.serviceDefinition,
	}
}

// Document serializes the manifest to its canonical JSON form, with keys
// in the required order, followed by any pass-through keys preserved
// from a loaded document that aren't part of the canonical shape.
func (m *Manifest) Document() ([]byte, error) {
	canonical, err := json.Marshal(m.canonical())
	if err != nil {
		return nil, errors.Wrap(err, "manifest: encoding canonical document")
	}
	if len(m.extra) == 0 {
		return canonical, nil
	}

	extraNames := make([]string, 0, len(m.extra))
	for k := range m.extra {
		extraNames = append(extraNames, k)
	}
	sort.Strings(extraNames)

	var buf bytes.Buffer
	buf.Write(canonical[:len(canonical)-1]) // drop trailing '}'
	for _, k := range extraNames {
		buf.WriteByte(',')
		key, err := json.Marshal(k)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest: encoding pass-through key %q", k)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// rawDocument is used to decode a loaded manifest.json: canonical fields
// are captured by name, while everything else falls into the generic map
// so it can be replayed as a pass-through extra key.
type rawDocument struct {
	Name              string            `json:"name"`
	Version           string            `json:"version"`
	UUID              string            `json:"uuid"`
	Description       string            `json:"description"`
	Options           []optionDoc       `json:"options"`
	Settings          []string          `json:"settings"`
	Requires          []string          `json:"requires"`
	Conflicts         []string          `json:"conflicts"`
	Files             []string          `json:"files"`
	ServiceDefinition string            `json:"service_definition"`
}

// ListedFiles decodes just the `files` and `service_definition` basenames
// from a raw manifest document, without constructing a full Manifest. The
// envelope reader uses it to learn which basenames to resolve before any
// File content exists.
func ListedFiles(data []byte) (files []string, serviceDefinition string, err error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", errors.Wrap(ErrManifestMalformed, err.Error())
	}
	return raw.Files, raw.ServiceDefinition, nil
}

var canonicalKeys = map[string]struct{}{
	"name": {}, "version": {}, "uuid": {}, "description": {}, "options": {},
	"settings": {}, "requires": {}, "conflicts": {}, "files": {},
	"service_definition": {},
}

// ParseDocument decodes raw JSON bytes into a Manifest's typed fields plus
// a pass-through map of unrecognized keys. It does not resolve file
// contents — see Load for that.
func ParseDocument(data []byte) (*Manifest, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errors.Wrap(ErrManifestMalformed, err.Error())
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrManifestMalformed, err.Error())
	}

	v, err := version.Parse(raw.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: parsing version %q", raw.Version)
	}

	m := &Manifest{
		Identity:    spec.New(raw.Name, spec.Eq, v, raw.UUID),
		Description: raw.Description,
	}

	opts := make([]Option, len(raw.Options))
	for i, o := range raw.Options {
		opts[i] = Option{Name: o.Name, Type: o.Type, Description: o.Description, Default: o.Default}
	}
	if err := m.SetOptions(opts); err != nil {
		return nil, err
	}
	if err := m.SetSettings(SettingsFromNames(raw.Settings)); err != nil {
		return nil, err
	}
	requires, err := SpecsFromStrings(raw.Requires)
	if err != nil {
		return nil, err
	}
	m.SetRequires(requires)
	conflicts, err := SpecsFromStrings(raw.Conflicts)
	if err != nil {
		return nil, err
	}
	m.SetConflicts(conflicts)
	m.serviceDefinition = raw.ServiceDefinition

	extra := make(map[string]json.RawMessage)
	for k, v := range generic {
		if _, canonical := canonicalKeys[k]; canonical {
			continue
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		m.extra = extra
	}

	return m, nil
}
