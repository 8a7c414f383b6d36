// Package manifest models a parcel's metadata and embedded file contents:
// a typed, mutable aggregate of identity, options, settings, dependency
// specs, and embedded files.
package manifest

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/spec"
	"github.com/homeland-social/parcel/version"
)

// ErrFileNotFound is raised when a referenced source file is missing
// during Manifest construction.
var ErrFileNotFound = errors.New("manifest: file not found")

// ErrDuplicateName is raised when an option, setting, or file name repeats
// within its list.
var ErrDuplicateName = errors.New("manifest: duplicate name")

// ErrMissingServiceDefinitionFile is raised when service_definition names a
// file not present in Files.
var ErrMissingServiceDefinitionFile = errors.New("manifest: service definition file not present in files")

// ErrUnknownName is raised by Configure when an option or setting name
// isn't declared on the manifest.
var ErrUnknownName = errors.New("manifest: unknown option or setting")

// Manifest is the in-memory model of a parcel's metadata: a Spec identity
// (name/version/uuid, operator fixed to ==) plus description, options,
// settings, requires, conflicts, and embedded files.
type Manifest struct {
	Identity    spec.Spec
	Description string

	serviceDefinition string // basename, empty if unset

	options  []Option
	settings []Setting
	requires []spec.Spec
	conflicts []spec.Spec
	files    []File

	// extra carries unrecognized top-level keys from a loaded JSON
	// document so that round-tripping a manifest with vendor extensions
	// does not silently drop them.
	extra map[string]json.RawMessage
}

// New constructs an empty Manifest for the given name/version, assigning a
// fresh UUID.
func New(name string, v version.Version) *Manifest {
	return &Manifest{Identity: spec.New(name, spec.Eq, v, "")}
}

// Name returns the manifest's package name.
func (m *Manifest) Name() string { return m.Identity.Name }

// Version returns the manifest's version.
func (m *Manifest) Version() version.Version { return m.Identity.Version }

// UUID returns the manifest's unique identifier.
func (m *Manifest) UUID() string { return m.Identity.UUID }

// Spec returns the absolute (==) Spec identifying this manifest, suitable
// for catalog registration or solver encoding.
func (m *Manifest) Spec() spec.Spec { return m.Identity }

// ServiceDefinition returns the basename of the embedded service
// definition file, or "" if unset.
func (m *Manifest) ServiceDefinition() string { return m.serviceDefinition }

// SetServiceDefinition designates f as the service definition, removing
// any existing file of that name first and then adding f.
func (m *Manifest) SetServiceDefinition(f File) {
	m.DelFile(f.Name)
	m.AddFile(f)
	m.serviceDefinition = f.Name
}

// Options returns the manifest's options in insertion order.
func (m *Manifest) Options() []Option { return m.options }

// SetOptions replaces the option list wholesale, validating name
// uniqueness. There is no runtime type coercion — callers converting
// from a raw map or list of strings should do so before calling SetOptions.
func (m *Manifest) SetOptions(opts []Option) error {
	if err := assertUniqueOptions(opts); err != nil {
		return err
	}
	m.options = opts
	return nil
}

// OptionsFromMap constructs an Option list from a mapping of option name
// to option body.
func OptionsFromMap(m map[string]struct {
	Type        string
	Description string
	Default     any
	Value       any
}) []Option {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	opts := make([]Option, 0, len(m))
	for _, name := range names {
		body := m[name]
		opts = append(opts, Option{
			Name: name, Type: body.Type, Description: body.Description,
			Default: body.Default, Value: body.Value,
		})
	}
	return opts
}

// Settings returns the manifest's settings in insertion order.
func (m *Manifest) Settings() []Setting { return m.settings }

// SetSettings replaces the setting list wholesale, validating name
// uniqueness.
func (m *Manifest) SetSettings(settings []Setting) error {
	seen := make(map[string]struct{}, len(settings))
	for _, s := range settings {
		if _, ok := seen[s.Name]; ok {
			return errors.Wrapf(ErrDuplicateName, "setting %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	m.settings = settings
	return nil
}

// SettingsFromNames constructs a Setting list with nil values from a list
// of bare names.
func SettingsFromNames(names []string) []Setting {
	out := make([]Setting, len(names))
	for i, n := range names {
		out[i] = Setting{Name: n}
	}
	return out
}

// Requires returns the manifest's dependency specs in insertion order.
func (m *Manifest) Requires() []spec.Spec { return m.requires }

// SetRequires replaces the requires list.
func (m *Manifest) SetRequires(specs []spec.Spec) { m.requires = specs }

// Conflicts returns the manifest's conflict specs in insertion order.
func (m *Manifest) Conflicts() []spec.Spec { return m.conflicts }

// SetConflicts replaces the conflicts list.
func (m *Manifest) SetConflicts(specs []spec.Spec) { m.conflicts = specs }

// SpecsFromStrings parses a list of spec strings, as used for both
// `requires` and `conflicts` when loaded from JSON.
func SpecsFromStrings(strs []string) ([]spec.Spec, error) {
	out := make([]spec.Spec, len(strs))
	for i, s := range strs {
		parsed, err := spec.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing spec %q", s)
		}
		out[i] = parsed
	}
	return out, nil
}

// Files returns the manifest's embedded files in insertion order.
func (m *Manifest) Files() []File { return m.files }

// AddFile appends a file, which must have a name unique within the
// manifest.
func (m *Manifest) AddFile(f File) error {
	if m.GetFile(f.Name) != nil {
		return errors.Wrapf(ErrDuplicateName, "file %q", f.Name)
	}
	m.files = append(m.files, f)
	return nil
}

// DelFile removes the file with the given basename, if present. It is a
// no-op if no such file exists.
func (m *Manifest) DelFile(name string) {
	for i, f := range m.files {
		if f.Name == name {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return
		}
	}
}

// GetFile returns the file with the given basename, or nil if absent.
func (m *Manifest) GetFile(name string) *File {
	for i := range m.files {
		if m.files[i].Name == name {
			return &m.files[i]
		}
	}
	return nil
}

// Validate checks the manifest's structural invariants: the service
// definition, if set, must reference a file present in Files.
func (m *Manifest) Validate() error {
	if m.serviceDefinition != "" && m.GetFile(m.serviceDefinition) == nil {
		return errors.Wrapf(ErrMissingServiceDefinitionFile, "%q", m.serviceDefinition)
	}
	return nil
}

func assertUniqueOptions(opts []Option) error {
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		if _, ok := seen[o.Name]; ok {
			return errors.Wrapf(ErrDuplicateName, "option %q", o.Name)
		}
		seen[o.Name] = struct{}{}
	}
	return nil
}

// OptionNames returns the set of option names, used to check completeness
// against the *set* of names rather than a positional mapping.
func (m *Manifest) OptionNames() map[string]struct{} {
	names := make(map[string]struct{}, len(m.options))
	for _, o := range m.options {
		names[o.Name] = struct{}{}
	}
	return names
}

// SettingNames returns the set of setting names, used the same way as
// OptionNames.
func (m *Manifest) SettingNames() map[string]struct{} {
	names := make(map[string]struct{}, len(m.settings))
	for _, s := range m.settings {
		names[s.Name] = struct{}{}
	}
	return names
}

// Configure assigns per-install values to the manifest's declared options
// and settings. Every key in both maps must already be declared (checked
// against OptionNames/SettingNames); an unrecognized key is reported by
// name rather than silently accepted or silently dropped.
func (m *Manifest) Configure(options, settings map[string]any) error {
	optionNames := m.OptionNames()
	for name := range options {
		if _, ok := optionNames[name]; !ok {
			return errors.Wrapf(ErrUnknownName, "option %q", name)
		}
	}
	settingNames := m.SettingNames()
	for name := range settings {
		if _, ok := settingNames[name]; !ok {
			return errors.Wrapf(ErrUnknownName, "setting %q", name)
		}
	}

	for i, o := range m.options {
		if v, ok := options[o.Name]; ok {
			m.options[i].Value = v
		}
	}
	for i, s := range m.settings {
		if v, ok := settings[s.Name]; ok {
			m.settings[i].Value = v
		}
	}
	return nil
}
