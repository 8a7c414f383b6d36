// Package solver computes install/remove plans for a catalog of parcel
// specs given the specs currently installed and the specs a user has
// selected. It encodes the problem as a CNF over boolean variables — one
// per catalog entry that some clause mentions, true meaning "installed
// after the plan" — and hands
// the CNF to a SAT engine, enumerating every satisfying model rather than
// picking one.
package solver

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"

	"github.com/homeland-social/parcel/catalog"
	"github.com/homeland-social/parcel/spec"
)

// Plan is one way to reconcile installed state with the selected specs:
// the catalog entries to install and the currently-installed entries to
// remove.
type Plan struct {
	Install []catalog.Entry
	Remove  []catalog.Entry
}

// Iter enumerates plans lazily: each call to Next computes the next
// model on demand, so a caller may stop after the first plan it likes
// without paying for the rest.
type Iter struct {
	// Debug, if set, logs every accepted model at debug level. The CNF
	// clauses are all added by New, before a caller can set Debug, so
	// they are not logged.
	Debug bool

	g           *gini.Gini
	cat         *catalog.Catalog
	ids         []int
	lits        map[int]z.Lit
	installedID map[int]struct{}
	done        bool
}

// New builds the CNF for cat, installed, and selected, and returns an
// Iter ready to enumerate plans. It never itself invokes the SAT engine
// — Next does that lazily.
//
// A catalog entry is given a variable only the first time it is
// mentioned by some clause; an entry that never appears in any
// at-most-one, conflicts, requires, installed, or selected clause gets
// no variable at all, so it can't enumerate as a free choice.
func New(cat *catalog.Catalog, installed, selected []spec.Spec) (*Iter, error) {
	entries := cat.All()

	it := &Iter{
		g:           gini.New(),
		cat:         cat,
		lits:        make(map[int]z.Lit),
		installedID: make(map[int]struct{}),
	}

	byName := make(map[string][]catalog.Entry, len(entries))
	for _, e := range entries {
		byName[e.Manifest.Name()] = append(byName[e.Manifest.Name()], e)
	}

	for _, e := range entries {
		s := e.Manifest.Spec()

		// At-most-one-version: id conflicts with every other entry of
		// the same name.
		for _, other := range byName[s.Name] {
			if other.ID == e.ID {
				continue
			}
			it.addClause("at-most-one", it.litFor(e.ID).Not(), it.litFor(other.ID).Not())
		}

		// Conflicts: one clause per (id, matching entry) pair.
		for _, c := range e.Manifest.Conflicts() {
			matches, err := cat.Search(c)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				it.addClause("conflicts", it.litFor(e.ID).Not(), it.litFor(m.ID).Not())
			}
		}

		// Requires: a single clause, id implies at least one match.
		for _, r := range e.Manifest.Requires() {
			matches, err := cat.Search(r)
			if err != nil {
				return nil, err
			}
			lits := make([]z.Lit, 0, len(matches)+1)
			lits = append(lits, it.litFor(e.ID).Not())
			for _, m := range matches {
				lits = append(lits, it.litFor(m.ID))
			}
			it.addClause("requires", lits...)
		}
	}

	for _, inst := range installed {
		floor := spec.New(inst.Name, spec.Ge, inst.Version, "")
		matches, err := cat.Search(floor)
		if err != nil {
			return nil, err
		}
		lits := make([]z.Lit, len(matches))
		for i, m := range matches {
			lits[i] = it.litFor(m.ID)
			it.installedID[m.ID] = struct{}{}
		}
		it.addClause("installed", lits...)
	}

	for _, sel := range selected {
		matches, err := cat.Search(sel)
		if err != nil {
			return nil, err
		}
		lits := make([]z.Lit, len(matches))
		for i, m := range matches {
			lits[i] = it.litFor(m.ID)
		}
		it.addClause("selected", lits...)
	}

	return it, nil
}

// litFor returns the variable for id, allocating one from the SAT
// engine the first time id is mentioned by a clause.
func (it *Iter) litFor(id int) z.Lit {
	if l, ok := it.lits[id]; ok {
		return l
	}
	l := it.g.Lit()
	it.lits[id] = l
	it.ids = append(it.ids, id)
	return l
}

func (it *Iter) addClause(kind string, lits ...z.Lit) {
	if it.Debug {
		logrus.WithField("kind", kind).Debug(clauseString(lits))
	}
	for _, l := range lits {
		it.g.Add(l)
	}
	it.g.Add(0)
}

func clauseString(lits []z.Lit) string {
	s := make([]byte, 0, 4*len(lits))
	for i, l := range lits {
		if i > 0 {
			s = append(s, ' ')
		}
		s = append(s, []byte(l.String())...)
	}
	return string(s)
}

// Next advances to the next satisfying model, returning false once the
// CNF is exhausted (no more models) or unsatisfiable from the start.
func (it *Iter) Next() (Plan, bool) {
	if it.done {
		return Plan{}, false
	}
	if it.g.Solve() != 1 {
		it.done = true
		return Plan{}, false
	}

	var plan Plan
	blocking := make([]z.Lit, 0, len(it.ids))
	for _, id := range it.ids {
		lit := it.lits[id]
		if it.g.Value(lit) {
			plan.Install = append(plan.Install, entryByID(it.cat, id))
			blocking = append(blocking, lit.Not())
			continue
		}
		if _, ok := it.installedID[id]; ok {
			plan.Remove = append(plan.Remove, entryByID(it.cat, id))
		}
		blocking = append(blocking, lit)
	}

	if it.Debug {
		logrus.WithFields(logrus.Fields{
			"install": names(plan.Install),
			"remove":  names(plan.Remove),
		}).Debug("solver: accepted model")
	}

	for _, b := range blocking {
		it.g.Add(b)
	}
	it.g.Add(0)

	return plan, true
}

func entryByID(cat *catalog.Catalog, id int) catalog.Entry {
	m, _ := cat.Get(id) // id always comes from cat.All(), so this cannot fail
	return catalog.Entry{ID: id, Manifest: m}
}

func names(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Manifest.Spec().String()
	}
	return out
}
