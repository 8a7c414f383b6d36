package spec_test

import (
	"testing"

	"github.com/homeland-social/parcel/spec"
)

func mustParse(t *testing.T, s string) spec.Spec {
	t.Helper()
	sp, err := spec.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return sp
}

func TestParseRoundTrip(t *testing.T) {
	cases := []struct{ in, want string }{
		{"foobar==1.0", "foobar==1.0"},
		{"foobar=1.0", "foobar==1.0"},
		{"foobar>=1.0", "foobar>=1.0"},
		{"foobar", "foobar"},
	}
	for _, c := range cases {
		s := mustParse(t, c.in)
		if got := s.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNameOnlyMatch(t *testing.T) {
	q := mustParse(t, "foobar")
	ok, err := q.IsSatisfiedBy(mustParse(t, "foobar==1.0"))
	if err != nil || !ok {
		t.Fatalf("expected name-only match, got ok=%v err=%v", ok, err)
	}
}

func TestSatisfactionMatrix(t *testing.T) {
	cases := []struct {
		q, t string
		want bool
	}{
		{"foobar=1.0", "foobar=1.0.0", true},
		{"foobar>=1.0", "foobar=1.0", true},
		{"foobar>=1.0", "foobar=2.0", true},
		{"foobar==1.0", "foobar=1.0", true},
		{"foobar==1.0", "foobar=1.0.1", false},
		{"foobar>=1.0", "barfoo=1.0", false},
		{"foobar>1.0", "foobar=1.0", false},
	}
	for _, c := range cases {
		q, tgt := mustParse(t, c.q), mustParse(t, c.t)
		got, err := q.IsSatisfiedBy(tgt)
		if err != nil {
			t.Fatalf("IsSatisfiedBy(%s, %s): %v", c.q, c.t, err)
		}
		if got != c.want {
			t.Errorf("%s satisfied by %s = %v, want %v", c.q, c.t, got, c.want)
		}
	}
}

func TestSatisfactionSymmetry(t *testing.T) {
	q, tgt := mustParse(t, "foobar>=1.0"), mustParse(t, "foobar==2.0")

	a, err := q.IsSatisfiedBy(tgt)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tgt.Satisfies(q)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("IsSatisfiedBy/Satisfies disagree: %v vs %v", a, b)
	}
}

func TestOrderingGuard(t *testing.T) {
	a, b := mustParse(t, "foobar>=1.0"), mustParse(t, "foobar==1.0")
	if _, err := spec.LessThan(a, b); err == nil {
		t.Fatal("expected InvalidSpecOrdering error")
	}
}

func TestOrderingAbsolute(t *testing.T) {
	gt, err := spec.GreaterThan(mustParse(t, "foobar==1.0.1"), mustParse(t, "foobar==1.0"))
	if err != nil || !gt {
		t.Fatalf("expected 1.0.1 > 1.0, got %v err=%v", gt, err)
	}
	lt, err := spec.LessThan(mustParse(t, "foobar==0.99"), mustParse(t, "foobar==1.0"))
	if err != nil || !lt {
		t.Fatalf("expected 0.99 < 1.0, got %v err=%v", lt, err)
	}
}

func TestOrderingDifferentNamesUnordered(t *testing.T) {
	_, ok, err := spec.Compare(mustParse(t, "foobar==1.0"), mustParse(t, "barfoo==1.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected differently-named specs to be unordered")
	}
}

func TestUUIDAssignedWhenMissing(t *testing.T) {
	s := spec.New("foobar", "", mustParse(t, "foobar").Version, "")
	if s.UUID == "" {
		t.Fatal("expected a UUID to be assigned")
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, "foobar==1.0")
	b := mustParse(t, "foobar==1.0")
	if !a.Equal(b) {
		t.Errorf("expected %s == %s", a, b)
	}
	if mustParse(t, "foobar==1.0").Equal(mustParse(t, "foobar==1.0.1")) {
		t.Error("expected 1.0 != 1.0.1")
	}
}
