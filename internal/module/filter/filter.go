// Package filter selects entries by header predicates.
package filter

import (
	"iter"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Filter is a predicate over an entry.
type Filter func(*store.Entry) bool

// All matches every entry.
func All(*store.Entry) bool { return true }

// VersionLess matches entries whose store format version is below v.
// Entries with an unparsable version never match.
func VersionLess(v string) Filter {
	want := canonical(v)

	return func(e *store.Entry) bool {
		got := canonical(e.Version())
		if !semver.IsValid(got) || !semver.IsValid(want) {
			return false
		}

		return semver.Compare(got, want) < 0
	}
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	return v
}

// HasField matches entries with a node at path.
func HasField(path string) Filter {
	return func(e *store.Entry) bool {
		n, err := header.Read(e.Header(), path)

		return err == nil && n != nil
	}
}

// FieldEquals matches entries whose node at path equals want.
func FieldEquals(path string, want *header.Node) Filter {
	return func(e *store.Entry) bool {
		n, err := header.Read(e.Header(), path)

		return err == nil && n.Equal(want)
	}
}

// And matches when every filter matches.
func And(filters ...Filter) Filter {
	return func(e *store.Entry) bool {
		for _, f := range filters {
			if !f(e) {
				return false
			}
		}

		return true
	}
}

// Or matches when any filter matches.
func Or(filters ...Filter) Filter {
	return func(e *store.Entry) bool {
		for _, f := range filters {
			if f(e) {
				return true
			}
		}

		return false
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(e *store.Entry) bool { return !f(e) }
}

// Select checks out each id, keeps those matching f and releases the
// entry without writing. It stops at the first error.
func Select(s *store.Store, ids iter.Seq2[store.ID, error], f Filter) ([]store.ID, error) {
	var out []store.ID

	for id, err := range ids {
		if err != nil {
			return nil, err
		}

		g, err := s.Retrieve(id)
		if err != nil {
			return nil, err
		}

		if f(g.Entry()) {
			out = append(out, id)
		}

		g.Discard()
	}

	return out, nil
}
