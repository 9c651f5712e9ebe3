package bookmark_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/calvinalkan/pimstore/internal/module/bookmark"
	"github.com/calvinalkan/pimstore/internal/testutil"
)

func Test_Add_Stores_Bookmark_Under_UUIDv7(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	id, err := bookmark.Add(s, "https://go.dev/doc/", "Go docs")
	if err != nil {
		t.Fatal(err)
	}

	uid, err := uuid.Parse(id.Name())
	if err != nil || uid.Version() != 7 {
		t.Fatalf("id %s is not a UUIDv7 (err=%v)", id, err)
	}

	e := testutil.Checkout(t, s, id)

	u, err := bookmark.URL(e)
	if err != nil || u != "https://go.dev/doc/" {
		t.Fatalf("URL=(%q,%v)", u, err)
	}

	title, err := bookmark.Title(e)
	if err != nil || title != "Go docs" {
		t.Fatalf("Title=(%q,%v)", title, err)
	}
}

func Test_Add_Rejects_URL_When_SchemeOrHostMissing(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	for _, raw := range []string{"", "go.dev", "/relative/path", "http://"} {
		if _, err := bookmark.Add(s, raw, ""); !errors.Is(err, bookmark.ErrInvalidURL) {
			t.Fatalf("Add(%q) err=%v, want ErrInvalidURL", raw, err)
		}
	}
}

func Test_FindByURL_Returns_MatchingBookmark(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	_, err := bookmark.Add(s, "https://a.example/", "a")
	if err != nil {
		t.Fatal(err)
	}

	want, err := bookmark.Add(s, "https://b.example/", "b")
	if err != nil {
		t.Fatal(err)
	}

	got, found, err := bookmark.FindByURL(s, "https://b.example/")
	if err != nil || !found || !got.Equal(want) {
		t.Fatalf("FindByURL=(%v,%v,%v), want %s", got, found, err, want)
	}

	_, found, err = bookmark.FindByURL(s, "https://c.example/")
	if err != nil || found {
		t.Fatalf("FindByURL missing=(%v,%v), want not found", found, err)
	}
}
