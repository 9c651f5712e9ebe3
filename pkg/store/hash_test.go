package store_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/pimstore/pkg/store"
)

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}

	return n
}

func Test_Hash_Is_Sha256_Of_FileBytes(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)
	id := createEntry(t, s, "notes/a", "hello")

	data, err := os.ReadFile(id.AbsPath())
	if err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(data)

	got, err := s.Hash(id)
	if err != nil {
		t.Fatal(err)
	}

	if got != hex.EncodeToString(sum[:]) {
		t.Fatalf("hash=%s, want sha256 of file", got)
	}
}

func Test_FindByPartialHash_Reports_Candidates_When_PrefixShared(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	hashes := map[string]string{}

	for i := range 40 {
		id := createEntry(t, s, fmt.Sprintf("notes/n%02d", i), fmt.Sprintf("content %d", i))

		h, err := s.Hash(id)
		if err != nil {
			t.Fatal(err)
		}

		hashes[id.Rel()] = h
	}

	// The pair sharing the longest prefix P: no other entry can share P plus
	// one more of a's digits.
	var a, b string

	best := -1

	for x, hx := range hashes {
		for y, hy := range hashes {
			if x >= y {
				continue
			}

			if n := commonPrefixLen(hx, hy); n > best {
				best, a, b = n, x, y
			}
		}
	}

	prefix := hashes[a][:best]

	var want []string

	for rel, h := range hashes {
		if strings.HasPrefix(h, prefix) {
			want = append(want, rel)
		}
	}

	slices.Sort(want)

	_, _, err := s.FindByPartialHash(prefix)
	if !errors.Is(err, store.ErrAmbiguousHash) {
		t.Fatalf("err=%v, want ErrAmbiguousHash", err)
	}

	var serr *store.Error
	if !errors.As(err, &serr) {
		t.Fatalf("err=%T, want *store.Error", err)
	}

	if diff := cmp.Diff(want, serr.Candidates); diff != "" {
		t.Fatalf("candidates (-want +got):\n%s", diff)
	}

	if !slices.Contains(serr.Candidates, b) {
		t.Fatalf("candidates %v missing %s", serr.Candidates, b)
	}

	for _, c := range want {
		if !strings.Contains(err.Error(), c) {
			t.Fatalf("error %q does not name %s", err, c)
		}
	}

	got, found, err := s.FindByPartialHash(hashes[a][:best+1])
	if err != nil || !found || got.Rel() != a {
		t.Fatalf("extended prefix=(%v,%v,%v), want %s", got, found, err, a)
	}
}

func Test_FindByPartialHash_Returns_Single_When_Unique(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)
	id := createEntry(t, s, "notes/only", "x")

	h, err := s.Hash(id)
	if err != nil {
		t.Fatal(err)
	}

	got, found, err := s.FindByPartialHash(strings.ToUpper(h[:6]))
	if err != nil || !found || !got.Equal(id) {
		t.Fatalf("find=(%v,%v,%v), want %s", got, found, err, id)
	}

	got, found, err = s.FindByPartialHash(h)
	if err != nil || !found || !got.Equal(id) {
		t.Fatalf("full hash=(%v,%v,%v), want %s", got, found, err, id)
	}
}

func Test_FindByPartialHash_Returns_NotFound_When_NoMatch(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)
	id := createEntry(t, s, "notes/only", "x")

	h, err := s.Hash(id)
	if err != nil {
		t.Fatal(err)
	}

	other := "0"
	if h[0] == '0' {
		other = "1"
	}

	_, found, err := s.FindByPartialHash(other)
	if err != nil || found {
		t.Fatalf("find=(%v,%v), want (false,nil)", found, err)
	}
}

func Test_FindByPartialHash_Rejects_Prefix_When_NotHex(t *testing.T) {
	t.Parallel()

	s := openStore(t, nil)

	for _, prefix := range []string{"", "  ", "xyz", "12g4", strings.Repeat("a", store.HashLen+1)} {
		_, _, err := s.FindByPartialHash(prefix)
		if !errors.Is(err, store.ErrInvalidHash) {
			t.Fatalf("FindByPartialHash(%q) err=%v, want ErrInvalidHash", prefix, err)
		}
	}
}
