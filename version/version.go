// Package version implements the dotted-numeric version scheme used to
// identify parcels: strings like "1.0", "1.0.8", or "0.99", compared
// component-wise with zero-extension so that "1.0" and "1.0.0" are equal.
package version

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is an opaque, totally-ordered value parsed from a dotted-numeric
// string. The zero value is not a valid Version; use Parse.
type Version struct {
	parts []uint64
}

// Parse parses a dotted-numeric version string such as "1.0.8".
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, errors.New("version: empty string")
	}

	fields := strings.Split(s, ".")
	parts := make([]uint64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return Version{}, errors.Wrapf(err, "version: invalid component %q in %q", f, s)
		}
		parts[i] = n
	}
	return Version{parts: parts}, nil
}

// MustParse is like Parse but panics on error. Intended for static literals.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical dotted representation, trimming no
// components, so "1.0" and "1.0.0" print as given. Each component is
// printed in plain decimal, so a leading zero ("01") is not kept.
func (v Version) String() string {
	fields := make([]string, len(v.parts))
	for i, n := range v.parts {
		fields[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(fields, ".")
}

// IsZero reports whether v was never parsed (the Version zero value).
func (v Version) IsZero() bool {
	return v.parts == nil
}

// Compare returns -1, 0, or 1 depending on whether v is less than, equal
// to, or greater than o, comparing components left to right and treating
// any missing trailing component as zero (so 1.0 == 1.0.0).
func (v Version) Compare(o Version) int {
	n := len(v.parts)
	if len(o.parts) > n {
		n = len(o.parts)
	}
	for i := 0; i < n; i++ {
		a, b := component(v.parts, i), component(o.parts, i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func component(parts []uint64, i int) uint64 {
	if i >= len(parts) {
		return 0
	}
	return parts[i]
}

// Equal reports whether v and o compare equal under zero-extension.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// LessThan reports whether v sorts before o.
func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }

// GreaterThan reports whether v sorts after o.
func (v Version) GreaterThan(o Version) bool { return v.Compare(o) > 0 }

// LessOrEqual reports whether v sorts before or equal to o.
func (v Version) LessOrEqual(o Version) bool { return v.Compare(o) <= 0 }

// GreaterOrEqual reports whether v sorts after or equal to o.
func (v Version) GreaterOrEqual(o Version) bool { return v.Compare(o) >= 0 }
