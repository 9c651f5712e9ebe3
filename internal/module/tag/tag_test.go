package tag_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/pimstore/internal/module/tag"
	"github.com/calvinalkan/pimstore/internal/testutil"
	"github.com/calvinalkan/pimstore/pkg/store"
)

func newEntry(t *testing.T) *store.Entry {
	t.Helper()

	s := testutil.NewStore(t)

	g, err := s.Create(mustID(t, s, "notes/tagged"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(g.Discard)

	return g.Entry()
}

func mustID(t *testing.T, s *store.Store, rel string) store.ID {
	t.Helper()

	id, err := s.NewID(rel)
	if err != nil {
		t.Fatal(err)
	}

	return id
}

func Test_Validate_Accepts_Only_LowercaseIdentifiers(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"a", "work", "on-call", "q3_goals", "x9"} {
		if err := tag.Validate(ok); err != nil {
			t.Fatalf("Validate(%q)=%v, want nil", ok, err)
		}
	}

	for _, bad := range []string{"", "Work", "9lives", "-x", "two words", "ümlaut"} {
		if err := tag.Validate(bad); !errors.Is(err, tag.ErrInvalidTag) {
			t.Fatalf("Validate(%q)=%v, want ErrInvalidTag", bad, err)
		}
	}
}

func Test_Add_Keeps_Tags_Sorted_And_Unique(t *testing.T) {
	t.Parallel()

	e := newEntry(t)

	for _, name := range []string{"zeta", "alpha", "zeta", "mid"} {
		if err := tag.Add(e, name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	got, err := tag.All(e)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, got); diff != "" {
		t.Fatalf("tags (-want +got):\n%s", diff)
	}

	if err := tag.Add(e, "Bad"); !errors.Is(err, tag.ErrInvalidTag) {
		t.Fatalf("add invalid err=%v, want ErrInvalidTag", err)
	}
}

func Test_Remove_Reports_Whether_TagWasPresent(t *testing.T) {
	t.Parallel()

	e := newEntry(t)

	if err := tag.Set(e, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	removed, err := tag.Remove(e, "a")
	if err != nil || !removed {
		t.Fatalf("Remove(a)=(%v,%v), want true", removed, err)
	}

	removed, err = tag.Remove(e, "a")
	if err != nil || removed {
		t.Fatalf("second Remove(a)=(%v,%v), want false", removed, err)
	}

	has, _ := tag.Has(e, "b")
	if !has {
		t.Fatal("b lost")
	}
}
