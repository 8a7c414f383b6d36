package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homeland-social/parcel/catalog"
	"github.com/homeland-social/parcel/manifest"
	"github.com/homeland-social/parcel/spec"
	"github.com/homeland-social/parcel/version"
)

func newManifest(t *testing.T, name, v string) *manifest.Manifest {
	t.Helper()
	return manifest.New(name, version.MustParse(v))
}

func TestAddGetStability(t *testing.T) {
	c := catalog.New()
	m := newManifest(t, "foo", "1.0")
	id := c.Add(m)

	got, err := c.Get(id)
	require.NoError(t, err)
	require.Same(t, m, got)
}

func TestGetUnknown(t *testing.T) {
	c := catalog.New()
	_, err := c.Get(99)
	require.Error(t, err)
}

func TestAllInsertionOrder(t *testing.T) {
	c := catalog.New()
	idA := c.Add(newManifest(t, "foo", "1.0"))
	idB := c.Add(newManifest(t, "foo", "2.0"))

	all := c.All()
	require.Len(t, all, 2)
	require.Equal(t, idA, all[0].ID)
	require.Equal(t, idB, all[1].ID)
}

func TestSearchSubsetOfAll(t *testing.T) {
	c := catalog.New()
	c.Add(newManifest(t, "foo", "1.0"))
	c.Add(newManifest(t, "foo", "2.0"))
	c.Add(newManifest(t, "bar", "1.0"))

	q, err := spec.Parse("foo>=1.5")
	require.NoError(t, err)

	results, err := c.Search(q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "2.0", results[0].Manifest.Version().String())
}

func TestSearchUnknownNameIsEmptyNotError(t *testing.T) {
	c := catalog.New()
	q, err := spec.Parse("nonexistent")
	require.NoError(t, err)

	results, err := c.Search(q)
	require.NoError(t, err)
	require.Empty(t, results)
}
