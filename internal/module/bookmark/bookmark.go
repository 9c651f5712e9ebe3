// Package bookmark stores URLs as entries "bookmark/<uuid>".
//
// Ids are UUIDv7, so directory order is creation order.
package bookmark

import (
	"errors"
	"fmt"
	"iter"
	"net/url"

	"github.com/google/uuid"

	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Module is the store module of bookmarks.
const Module = "bookmark"

// Header paths.
const (
	PathURL   = "bookmark.url"
	PathTitle = "bookmark.title"
)

// ErrInvalidURL is returned for URLs without scheme or host.
var ErrInvalidURL = errors.New("invalid bookmark url")

// Add stores a new bookmark and returns its id.
func Add(s *store.Store, rawURL, title string) (store.ID, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return store.ID{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return store.ID{}, fmt.Errorf("generate bookmark id: %w", err)
	}

	id, err := s.ModuleID(Module, uid.String())
	if err != nil {
		return store.ID{}, err
	}

	g, err := s.Create(id)
	if err != nil {
		return store.ID{}, err
	}

	h := g.Entry().Header()

	err = errors.Join(
		header.Insert(h, PathURL, header.String(u.String())),
		header.Insert(h, PathTitle, header.String(title)),
	)
	if err != nil {
		g.Discard()

		return store.ID{}, err
	}

	return id, g.Release()
}

// URL returns the bookmarked URL of e.
func URL(e *store.Entry) (string, error) {
	u, _, err := header.ReadString(e.Header(), PathURL)

	return u, err
}

// Title returns the bookmark title of e.
func Title(e *store.Entry) (string, error) {
	t, _, err := header.ReadString(e.Header(), PathTitle)

	return t, err
}

// All yields every bookmark id.
func All(s *store.Store) iter.Seq2[store.ID, error] {
	return s.RetrieveForModule(Module)
}

// FindByURL returns the first bookmark whose URL equals rawURL.
func FindByURL(s *store.Store, rawURL string) (store.ID, bool, error) {
	for id, err := range All(s) {
		if err != nil {
			return store.ID{}, false, err
		}

		g, err := s.Retrieve(id)
		if err != nil {
			return store.ID{}, false, err
		}

		got, err := URL(g.Entry())
		g.Discard()

		if err != nil {
			return store.ID{}, false, err
		}

		if got == rawURL {
			return id, true, nil
		}
	}

	return store.ID{}, false, nil
}
