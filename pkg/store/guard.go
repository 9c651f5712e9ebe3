package store

import (
	"errors"
)

var errReleased = errors.New("guard already released")

// Guard is exclusive ownership of one checked-out entry.
//
// While a Guard is live, Create, Retrieve, Get and Delete on the same id fail
// with [ErrLocked]. [Guard.Release] writes the entry back and ends the
// checkout; callers should defer it right after acquiring the guard:
//
//	g, err := s.Retrieve(id)
//	if err != nil {
//		return err
//	}
//	defer func() { err = errors.Join(err, g.Release()) }()
//
// A Guard is owned by one goroutine; it is not safe for concurrent use.
type Guard struct {
	store *Store
	entry *Entry

	// fresh is true until the first successful persist of a created entry.
	fresh    bool
	released bool
}

// Entry returns the checked-out entry.
func (g *Guard) Entry() *Entry { return g.entry }

// ID returns the entry id.
func (g *Guard) ID() ID { return g.entry.id }

// Released reports whether the guard was released or discarded.
func (g *Guard) Released() bool { return g.released }

// Persist writes the current entry state to disk without ending the checkout.
func (g *Guard) Persist() error {
	if g.released {
		return newError(KindWrite, g.entry.id, errReleased)
	}

	return g.store.persist(g)
}

// Release persists the entry and ends the checkout.
//
// The checkout ends even when the write fails; the write error is returned.
// Calling Release again is a no-op.
func (g *Guard) Release() error {
	if g.released {
		return nil
	}

	err := g.store.persist(g)

	g.released = true
	g.store.checkin(g.entry.id)

	return err
}

// Discard ends the checkout without writing. Changes to the entry are lost;
// a created entry that was never persisted leaves nothing on disk.
func (g *Guard) Discard() {
	if g.released {
		return
	}

	g.released = true
	g.store.checkin(g.entry.id)
}
