package manifest

import (
	"gopkg.in/yaml.v3"

	"github.com/pkg/errors"
)

// ErrNoServiceDefinition is raised when a manifest has no service
// definition set.
var ErrNoServiceDefinition = errors.New("manifest: no service definition")

// ServiceConfig describes one entry of the service definition's top-level
// `configs` mapping: at minimum a `file` basename, plus whatever else the
// service definition format carries that the linter doesn't interpret.
type ServiceConfig struct {
	File  string
	Extra map[string]any `yaml:",inline"`
}

// ServiceDefinitionDoc is the structured form of the embedded
// service-definition YAML that the linter cross-checks against.
type ServiceDefinitionDoc struct {
	Configs map[string]ServiceConfig `yaml:"configs"`
}

// ParseServiceDefinition parses the embedded service-definition file: a
// top-level YAML mapping with a `configs` key whose values carry a `file`
// basename. Other top-level keys are accepted but not interpreted.
func (m *Manifest) ParseServiceDefinition() (*ServiceDefinitionDoc, error) {
	if m.serviceDefinition == "" {
		return nil, ErrNoServiceDefinition
	}
	f := m.GetFile(m.serviceDefinition)
	if f == nil {
		return nil, errors.Wrapf(ErrMissingServiceDefinitionFile, "%q", m.serviceDefinition)
	}

	var doc ServiceDefinitionDoc
	if err := yaml.Unmarshal(f.Bytes, &doc); err != nil {
		return nil, errors.Wrapf(err, "manifest: parsing service definition %q", m.serviceDefinition)
	}
	return &doc, nil
}
