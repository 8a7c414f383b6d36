// Package lint cross-checks a loaded manifest against its embedded
// service definition: every file the service definition's configs claim
// must be present, and no file may be present that nothing claims.
package lint

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/manifest"
)

// ErrLintFailure reports the offending name(s) in its message.
var ErrLintFailure = errors.New("lint: failed")

// Check runs the rules against m in order and returns ErrLintFailure for
// the first rule that fails, naming every offending name for that rule,
// or nil if m passes. Rules after the first failing one are not reported.
func Check(m *manifest.Manifest) error {
	if m.ServiceDefinition() == "" {
		return errors.Wrap(ErrLintFailure, "no service_definition set")
	}
	if m.GetFile(m.ServiceDefinition()) == nil {
		return errors.Wrapf(ErrLintFailure, "service_definition %q not present in files", m.ServiceDefinition())
	}

	doc, err := m.ParseServiceDefinition()
	if err != nil {
		return errors.Wrap(ErrLintFailure, err.Error())
	}

	claimed := map[string]struct{}{m.ServiceDefinition(): {}}
	configNames := make([]string, 0, len(doc.Configs))
	for label := range doc.Configs {
		configNames = append(configNames, label)
	}
	sort.Strings(configNames)

	var missing []string
	for _, label := range configNames {
		file := doc.Configs[label].File
		claimed[file] = struct{}{}
		if m.GetFile(file) == nil {
			missing = append(missing, file)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrLintFailure, "configs reference missing file(s): %s", strings.Join(missing, ", "))
	}

	var extra []string
	for _, f := range m.Files() {
		if _, ok := claimed[f.Name]; !ok {
			extra = append(extra, f.Name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return errors.Wrapf(ErrLintFailure, "files not referenced by service_definition: %s", strings.Join(extra, ", "))
	}

	return nil
}
