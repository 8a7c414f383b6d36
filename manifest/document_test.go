package manifest_test

import (
	"testing"

	"github.com/homeland-social/parcel/manifest"
)

func TestParseDocumentPreservesExtraKeys(t *testing.T) {
	raw := []byte(`{
		"name": "foobar",
		"version": "1.0",
		"uuid": "abc-123",
		"options": [],
		"settings": [],
		"requires": [],
		"conflicts": [],
		"files": [],
		"x-vendor-note": "do not remove"
	}`)

	m, err := manifest.ParseDocument(raw)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc, err := m.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	if !jsonContains(t, doc, "x-vendor-note", `"do not remove"`) {
		t.Errorf("expected pass-through key to round-trip, got %s", doc)
	}
}

func jsonContains(t *testing.T, doc []byte, key, value string) bool {
	t.Helper()
	needle := `"` + key + `":` + value
	return contains(string(doc), needle)
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestSpecsFromStrings(t *testing.T) {
	specs, err := manifest.SpecsFromStrings([]string{"foobar==1.0", "baz>=2.0"})
	if err != nil {
		t.Fatalf("SpecsFromStrings: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "foobar" || specs[1].Name != "baz" {
		t.Fatalf("unexpected specs: %+v", specs)
	}
}

func TestSettingsFromNames(t *testing.T) {
	settings := manifest.SettingsFromNames([]string{"A", "B"})
	if len(settings) != 2 || settings[0].Name != "A" || settings[0].Value != nil {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}
