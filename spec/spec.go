// Package spec implements parcel specs: a package name paired with an
// optional version constraint, the asymmetric satisfaction relation used
// by the catalog and solver, and the total order defined over absolute
// (==) specs.
package spec

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/version"
)

// Operator is a constraint comparison operator.
type Operator string

// The recognized operators. Input "=" is normalized to Eq.
const (
	Eq Operator = "=="
	Ne Operator = "!="
	Ge Operator = ">="
	Le Operator = "<="
	Gt Operator = ">"
	Lt Operator = "<"
)

// ErrInvalidOperator is raised when a satisfaction check encounters an
// operator value the implementation doesn't recognize.
var ErrInvalidOperator = errors.New("spec: invalid operator")

// ErrInvalidOrdering is raised when a comparison operator (<, <=, >, >=) is
// applied to a Spec whose operator is not Eq.
var ErrInvalidOrdering = errors.New("spec: comparison requires both specs to be absolute (==)")

// precedence governs the order operators are searched for when splitting a
// spec string: two-character operators must be tried before the single
// "<"/">" so that ">=" is not mistaken for ">" followed by "=".
var precedence = []Operator{Eq, Le, Ge, "=", Gt, Lt}

// Spec is a package identifier with an optional version constraint.
type Spec struct {
	Name     string
	Operator Operator // zero value means "no operator"
	Version  version.Version
	hasOp    bool
	UUID     string
}

// New constructs a Spec, assigning a fresh UUID if none is given.
func New(name string, op Operator, v version.Version, id string) Spec {
	if id == "" {
		id = uuid.NewString()
	}
	s := Spec{Name: name, Version: v, UUID: id}
	if op != "" {
		s.Operator = op
		s.hasOp = true
	}
	return s
}

// HasOperator reports whether s carries an operator (and therefore a
// version). An operator always implies a version.
func (s Spec) HasOperator() bool { return s.hasOp }

// Parse parses "name<op><version>" into a Spec. A bare name with no
// recognized operator yields a name-only Spec. "=" is normalized to "==".
func Parse(s string) (Spec, error) {
	name, op, vs, hasOp := split(s)
	if !hasOp {
		return New(name, "", version.Version{}, ""), nil
	}
	v, err := version.Parse(vs)
	if err != nil {
		return Spec{}, errors.Wrapf(err, "spec: parsing %q", s)
	}
	return New(name, op, v, ""), nil
}

// split scans for operators in priority order, splitting on the rightmost
// occurrence of the first one found.
func split(s string) (name string, op Operator, vers string, hasOp bool) {
	for _, candidate := range precedence {
		idx := strings.LastIndex(s, string(candidate))
		if idx < 0 {
			continue
		}
		name = s[:idx]
		vers = s[idx+len(candidate):]
		op = candidate
		if op == "=" {
			op = Eq
		}
		return name, op, vers, true
	}
	return s, "", "", false
}

// String renders the canonical form of the spec, e.g. "name==1.0".
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.hasOp {
		b.WriteString(string(s.Operator))
		b.WriteString(s.Version.String())
	}
	return b.String()
}

// Equal reports structural equality over (name, operator, version).
func (s Spec) Equal(o Spec) bool {
	if s.Name != o.Name || s.hasOp != o.hasOp {
		return false
	}
	if !s.hasOp {
		return true
	}
	return s.Operator == o.Operator && s.Version.Equal(o.Version)
}

// Satisfies reports whether s (the target/fact) satisfies the query q.
// It is the mirror of q.IsSatisfiedBy(s).
func (s Spec) Satisfies(q Spec) (bool, error) {
	return q.IsSatisfiedBy(s)
}

// IsSatisfiedBy reports whether the query spec q is satisfied by the
// target/fact spec t:
//
//   - names must match;
//   - a query with no operator and no version is satisfied by any target
//     of the same name;
//   - otherwise the target must be absolute (==), and the predicate
//     t.Version <q.Operator> q.Version must hold.
func (q Spec) IsSatisfiedBy(t Spec) (bool, error) {
	if q.Name != t.Name {
		return false, nil
	}
	if !q.hasOp {
		return true, nil
	}
	if t.Operator != Eq {
		return false, nil
	}
	switch q.Operator {
	case Eq:
		return t.Version.Equal(q.Version), nil
	case Ne:
		return !t.Version.Equal(q.Version), nil
	case Ge:
		return t.Version.GreaterOrEqual(q.Version), nil
	case Le:
		return t.Version.LessOrEqual(q.Version), nil
	case Gt:
		return t.Version.GreaterThan(q.Version), nil
	case Lt:
		return t.Version.LessThan(q.Version), nil
	default:
		return false, errors.Wrapf(ErrInvalidOperator, "operator %q", q.Operator)
	}
}

// assertAbsolute validates the precondition for ordering comparisons: both
// specs must carry the == operator.
func assertAbsolute(a, b Spec) error {
	if a.Operator != Eq || b.Operator != Eq {
		return errors.Wrapf(ErrInvalidOrdering, "%s, %s", a, b)
	}
	return nil
}

// Compare orders two absolute (==) specs of the same name by version.
// Differently-named specs are unordered: Compare returns 0 and ok=false
// for them, rather than an error.
//
// It is an error (ErrInvalidOrdering) to compare specs that are not both
// absolute.
func Compare(a, b Spec) (cmp int, ok bool, err error) {
	if err := assertAbsolute(a, b); err != nil {
		return 0, false, err
	}
	if a.Name != b.Name {
		return 0, false, nil
	}
	return a.Version.Compare(b.Version), true, nil
}

// LessThan reports whether a orders before b. See Compare for the
// ordering rules and error conditions.
func LessThan(a, b Spec) (bool, error) {
	c, ok, err := Compare(a, b)
	return ok && c < 0, err
}

// GreaterThan reports whether a orders after b.
func GreaterThan(a, b Spec) (bool, error) {
	c, ok, err := Compare(a, b)
	return ok && c > 0, err
}

// LessOrEqual reports whether a orders before or equal to b.
func LessOrEqual(a, b Spec) (bool, error) {
	c, ok, err := Compare(a, b)
	return ok && c <= 0, err
}

// GreaterOrEqual reports whether a orders after or equal to b.
func GreaterOrEqual(a, b Spec) (bool, error) {
	c, ok, err := Compare(a, b)
	return ok && c >= 0, err
}

// GoString supports %#v for debug printing, wrapping the canonical String
// form, e.g. "Spec(name==1.0)".
func (s Spec) GoString() string {
	return fmt.Sprintf("Spec(%s)", s.String())
}
