package note_test

import (
	"errors"
	"testing"

	"github.com/calvinalkan/pimstore/internal/module/note"
	"github.com/calvinalkan/pimstore/internal/testutil"
	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

func Test_Create_Then_Get_Returns_NameAndText(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	g, err := note.Create(s, "groceries", "milk\neggs\n")
	if err != nil {
		t.Fatal(err)
	}

	testutil.Release(t, g)

	got, err := note.Get(s, "groceries")
	if err != nil || got == nil {
		t.Fatalf("Get=(%v,%v), want guard", got, err)
	}

	defer got.Discard()

	name, err := note.Name(got.Entry())
	if err != nil || name != "groceries" {
		t.Fatalf("Name=(%q,%v), want groceries", name, err)
	}

	if text := note.Text(got.Entry()); text != "milk\neggs\n" {
		t.Fatalf("Text=%q", text)
	}
}

func Test_Get_Returns_Nil_When_NoteMissing(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	g, err := note.Get(s, "nothing")
	if err != nil || g != nil {
		t.Fatalf("Get=(%v,%v), want (nil,nil)", g, err)
	}
}

func Test_SetName_Fails_When_EntryIsNotANote(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	id, err := s.NewID("other/thing")
	if err != nil {
		t.Fatal(err)
	}

	g, err := s.Create(id)
	if err != nil {
		t.Fatal(err)
	}

	defer g.Discard()

	err = note.SetName(g.Entry(), "x")
	if !errors.Is(err, header.ErrMissing) {
		t.Fatalf("err=%v, want ErrMissing", err)
	}
}

func Test_All_Lists_Notes_And_Delete_Removes(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	for _, name := range []string{"a", "b"} {
		g, err := note.Create(s, name, "")
		if err != nil {
			t.Fatal(err)
		}

		testutil.Release(t, g)
	}

	if err := note.Delete(s, "a"); err != nil {
		t.Fatal(err)
	}

	var names []string

	for id, err := range note.All(s) {
		if err != nil {
			t.Fatal(err)
		}

		names = append(names, id.Name())
	}

	if len(names) != 1 || names[0] != "b" {
		t.Fatalf("notes=%v, want [b]", names)
	}

	if err := note.Delete(s, "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete missing err=%v, want ErrNotFound", err)
	}
}
