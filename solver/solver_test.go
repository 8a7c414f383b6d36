package solver_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homeland-social/parcel/catalog"
	"github.com/homeland-social/parcel/manifest"
	"github.com/homeland-social/parcel/solver"
	"github.com/homeland-social/parcel/spec"
	"github.com/homeland-social/parcel/version"
)

func mustSpec(t *testing.T, s string) spec.Spec {
	t.Helper()
	parsed, err := spec.Parse(s)
	require.NoError(t, err)
	return parsed
}

func newEntry(t *testing.T, name, v string, requires, conflicts []string) *manifest.Manifest {
	t.Helper()
	m := manifest.New(name, version.MustParse(v))
	var req, conf []spec.Spec
	for _, r := range requires {
		req = append(req, mustSpec(t, r))
	}
	for _, c := range conflicts {
		conf = append(conf, mustSpec(t, c))
	}
	m.SetRequires(req)
	m.SetConflicts(conf)
	return m
}

func planNames(p solver.Plan) (install, remove []string) {
	for _, e := range p.Install {
		install = append(install, e.Manifest.Spec().String())
	}
	for _, e := range p.Remove {
		remove = append(remove, e.Manifest.Spec().String())
	}
	sort.Strings(install)
	sort.Strings(remove)
	return
}

func TestEmptyCatalogYieldsEmptyPlan(t *testing.T) {
	cat := catalog.New()
	it, err := solver.New(cat, nil, nil)
	require.NoError(t, err)

	plan, ok := it.Next()
	require.True(t, ok)
	require.Empty(t, plan.Install)
	require.Empty(t, plan.Remove)

	_, ok = it.Next()
	require.False(t, ok)
}

func TestSelectedMatchingNothingIsUnsat(t *testing.T) {
	cat := catalog.New()
	cat.Add(newEntry(t, "foo", "1.0", nil, nil))

	it, err := solver.New(cat, nil, []spec.Spec{mustSpec(t, "bar==1.0")})
	require.NoError(t, err)

	_, ok := it.Next()
	require.False(t, ok)
}

func TestInstalledNotInCatalogIsUnsat(t *testing.T) {
	cat := catalog.New()
	cat.Add(newEntry(t, "foo", "1.0", nil, nil))

	it, err := solver.New(cat, []spec.Spec{mustSpec(t, "bar==1.0")}, nil)
	require.NoError(t, err)

	_, ok := it.Next()
	require.False(t, ok)
}

func TestSelectSingleVersion(t *testing.T) {
	cat := catalog.New()
	cat.Add(newEntry(t, "foo", "1.0", nil, nil))
	cat.Add(newEntry(t, "foo", "2.0", nil, nil))

	it, err := solver.New(cat, nil, []spec.Spec{mustSpec(t, "foo==2.0")})
	require.NoError(t, err)

	plan, ok := it.Next()
	require.True(t, ok)
	install, remove := planNames(plan)
	require.Equal(t, []string{"foo==2.0"}, install)
	require.Empty(t, remove)

	_, ok = it.Next()
	require.False(t, ok)
}

func TestCoupledUpgradeWithConflict(t *testing.T) {
	cat := catalog.New()
	cat.Add(newEntry(t, "foo", "1.0", []string{"bar==1.0"}, nil))
	cat.Add(newEntry(t, "foo", "2.0", []string{"bar==2.0"}, nil))
	cat.Add(newEntry(t, "bar", "1.0", []string{"foo==1.0"}, nil))
	cat.Add(newEntry(t, "bar", "2.0", []string{"foo==2.0"}, nil))
	cat.Add(newEntry(t, "quux", "1.0", []string{"schmoo"}, []string{"foo", "bar"}))
	cat.Add(newEntry(t, "baz", "1.0", nil, nil))

	installed := []spec.Spec{mustSpec(t, "foo==1.0"), mustSpec(t, "bar==1.0")}
	selected := []spec.Spec{mustSpec(t, "foo==2.0")}

	it, err := solver.New(cat, installed, selected)
	require.NoError(t, err)

	var plans []solver.Plan
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		plans = append(plans, p)
	}
	require.Len(t, plans, 1)

	install, remove := planNames(plans[0])
	require.Equal(t, []string{"bar==2.0", "foo==2.0"}, install)
	require.Equal(t, []string{"bar==1.0", "foo==1.0"}, remove)
}
