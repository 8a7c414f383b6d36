package version_test

import (
	"testing"

	"github.com/homeland-social/parcel/version"
)

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"1.0", "1.0.8", "0.99", "2", "10.20.30"} {
		v, err := version.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "a.b", "1.x", "1..0"} {
		if _, err := version.Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", s)
		}
	}
}

func TestEquivalence(t *testing.T) {
	a := version.MustParse("1.0")
	b := version.MustParse("1.0.0")
	if !a.Equal(b) {
		t.Errorf("%s should equal %s", a, b)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.1", "1.0", 1},
		{"0.99", "1.0", -1},
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0},
		{"2.0", "1.9.9", 1},
	}
	for _, c := range cases {
		a, b := version.MustParse(c.a), version.MustParse(c.b)
		if got := a.Compare(b); got != c.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestOrderingHelpers(t *testing.T) {
	a := version.MustParse("1.0.1")
	b := version.MustParse("1.0")

	if !a.GreaterThan(b) || !b.LessThan(a) {
		t.Errorf("expected %s > %s", a, b)
	}
	if !a.GreaterOrEqual(b) || !b.LessOrEqual(a) {
		t.Errorf("expected %s >= %s", a, b)
	}
}
