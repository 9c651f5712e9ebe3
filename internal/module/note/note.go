// Package note stores named free-text notes at "notes/<name>".
package note

import (
	"iter"

	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Module is the store module of notes.
const Module = "notes"

// PathName holds the note name in the header.
const PathName = "note.name"

// ID returns the id of the note called name.
func ID(s *store.Store, name string) (store.ID, error) {
	return s.ModuleID(Module, name)
}

// Create checks out a new note called name with text as content. The caller
// releases the guard.
func Create(s *store.Store, name, text string) (*store.Guard, error) {
	id, err := ID(s, name)
	if err != nil {
		return nil, err
	}

	g, err := s.Create(id)
	if err != nil {
		return nil, err
	}

	err = header.Insert(g.Entry().Header(), PathName, header.String(name))
	if err != nil {
		g.Discard()

		return nil, err
	}

	g.Entry().SetContent(text)

	return g, nil
}

// Get checks out the note called name; nil when it does not exist.
func Get(s *store.Store, name string) (*store.Guard, error) {
	id, err := ID(s, name)
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes the note called name.
func Delete(s *store.Store, name string) error {
	id, err := ID(s, name)
	if err != nil {
		return err
	}

	return s.Delete(id)
}

// All yields the ids of every note.
func All(s *store.Store) iter.Seq2[store.ID, error] {
	return s.RetrieveForModule(Module)
}

// Name returns the name recorded in the header.
func Name(e *store.Entry) (string, error) {
	name, _, err := header.ReadString(e.Header(), PathName)

	return name, err
}

// SetName renames the note in its header. The field must already exist, so
// entries that are not notes are left alone. The file stays where it is.
func SetName(e *store.Entry, name string) error {
	_, err := header.Set(e.Header(), PathName, header.String(name))

	return err
}

// Text returns the note text.
func Text(e *store.Entry) string { return e.Content() }

// SetText replaces the note text.
func SetText(e *store.Entry, text string) { e.SetContent(text) }
