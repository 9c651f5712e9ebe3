// Package testutil holds helpers shared by the module and CLI tests.
package testutil

import (
	"testing"

	"github.com/calvinalkan/pimstore/pkg/store"
)

// NewStore opens a store in a fresh temp dir.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(t.TempDir(), store.Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return s
}

// Checkout retrieves id and registers a discard on cleanup.
func Checkout(t *testing.T, s *store.Store, id store.ID) *store.Entry {
	t.Helper()

	g, err := s.Retrieve(id)
	if err != nil {
		t.Fatalf("retrieve %s: %v", id, err)
	}

	t.Cleanup(g.Discard)

	return g.Entry()
}

// Release releases g and fails the test on error.
func Release(t *testing.T, g *store.Guard) {
	t.Helper()

	err := g.Release()
	if err != nil {
		t.Fatalf("release %s: %v", g.ID(), err)
	}
}
