// Package catalog implements the pallet: an append-only registry of known
// parcel specs keyed by auto-assigned integer IDs, searchable by name and
// constraint. An entry is looked up either directly by ID or by walking
// the set of entries registered under a name and testing each against a
// query.
package catalog

import (
	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/manifest"
	"github.com/homeland-social/parcel/spec"
)

// Entry pairs a stable catalog ID with the Manifest registered under it.
type Entry struct {
	ID       int
	Manifest *manifest.Manifest
}

// ErrNotFound is raised by Get when no entry exists for the given ID.
var ErrNotFound = errors.New("catalog: no such entry")

// Catalog is an append-only registry of Manifests, indexed by both a
// stable integer ID and by name.
type Catalog struct {
	count   int
	entries map[int]*manifest.Manifest
	order   []int // insertion order of all IDs
	byName  map[string][]int
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		entries: make(map[int]*manifest.Manifest),
		byName:  make(map[string][]int),
	}
}

// Add registers m under the next integer ID, starting at 1, and returns
// that ID. IDs are stable for the lifetime of the Catalog.
func (c *Catalog) Add(m *manifest.Manifest) int {
	c.count++
	id := c.count
	c.entries[id] = m
	c.order = append(c.order, id)
	c.byName[m.Name()] = append(c.byName[m.Name()], id)
	return id
}

// Get returns the Manifest registered under id.
func (c *Catalog) Get(id int) (*manifest.Manifest, error) {
	m, ok := c.entries[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	return m, nil
}

// All returns every registered entry in insertion order.
func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Entry{ID: id, Manifest: c.entries[id]})
	}
	return out
}

// Search returns the subset of registered entries satisfied by query, in
// insertion order. Unknown names yield an empty slice, not an error.
func (c *Catalog) Search(query spec.Spec) ([]Entry, error) {
	ids, ok := c.byName[query.Name]
	if !ok {
		return nil, nil
	}

	var out []Entry
	for _, id := range ids {
		m := c.entries[id]
		ok, err := query.IsSatisfiedBy(m.Spec())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Entry{ID: id, Manifest: m})
		}
	}
	return out, nil
}
