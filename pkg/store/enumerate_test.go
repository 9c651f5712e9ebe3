package store_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/pimstore/pkg/store"
)

func collect(t *testing.T, seq func(func(store.ID, error) bool)) []string {
	t.Helper()

	var out []string

	for id, err := range seq {
		if err != nil {
			t.Fatalf("iterate: %v", err)
		}

		out = append(out, id.Rel())
	}

	return out
}

func Test_RetrieveForModule_Yields_EntryFiles_When_ModuleHasNestedDirs(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	createEntry(t, s, "notes/a", "")
	createEntry(t, s, "notes/sub/b", "")
	createEntry(t, s, "notes/sub/deeper/c", "")
	createEntry(t, s, "diary/work/2024", "")

	// Leftover temp file and hidden dir are not entries.
	err := os.WriteFile(filepath.Join(s.Root(), "notes", ".a.tmp-7"), []byte("partial"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	err = os.MkdirAll(filepath.Join(s.Root(), "notes", ".hidden"), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, s.RetrieveForModule("notes"))
	want := []string{"notes/a", "notes/sub/b", "notes/sub/deeper/c"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}

	// Each range walks afresh and sees new entries.
	createEntry(t, s, "notes/z", "")

	if got := collect(t, s.RetrieveForModule("notes")); len(got) != 4 {
		t.Fatalf("second walk=%v, want 4 ids", got)
	}
}

func Test_RetrieveForModule_Stops_When_ConsumerBreaks(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	for i := range 5 {
		createEntry(t, s, fmt.Sprintf("notes/n%d", i), "")
	}

	n := 0

	for _, err := range s.RetrieveForModule("notes") {
		if err != nil {
			t.Fatal(err)
		}

		n++
		if n == 2 {
			break
		}
	}

	if n != 2 {
		t.Fatalf("n=%d, want 2", n)
	}
}

func Test_RetrieveForModule_Yields_Nothing_When_ModuleMissing(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	if got := collect(t, s.RetrieveForModule("nothing")); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}

func Test_RetrieveForModule_Yields_InvalidPath_When_ModuleNameEscapes(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	for _, module := range []string{"", "..", "a/b", ".hidden"} {
		var errs []error

		for _, err := range s.RetrieveForModule(module) {
			errs = append(errs, err)
		}

		if len(errs) != 1 || !errors.Is(errs[0], store.ErrInvalidPath) {
			t.Fatalf("module %q: errs=%v, want one ErrInvalidPath", module, errs)
		}
	}
}

func Test_Entries_Yields_AllModules(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	createEntry(t, s, "notes/a", "")
	createEntry(t, s, "diary/x/1", "")
	createEntry(t, s, "bookmark/b", "")

	got := collect(t, s.Entries())
	slices.Sort(got)

	want := []string{"bookmark/b", "diary/x/1", "notes/a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}

	modules, err := s.Modules()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"bookmark", "diary", "notes"}, modules); diff != "" {
		t.Fatalf("modules (-want +got):\n%s", diff)
	}
}
