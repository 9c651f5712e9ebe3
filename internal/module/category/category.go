// Package category assigns a single category to an entry and keeps a
// register of known categories in the store.
//
// The assignment lives at "category.value" in the entry header. Each known
// category is an entry "category/<name>" whose header records its name.
package category

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Module is the store module holding the register.
const Module = "category"

// Header paths.
const (
	PathValue        = "category.value"
	PathRegisterName = "category.register.name"
)

// ErrUnknownCategory is returned by [SetChecked] for unregistered names.
var ErrUnknownCategory = errors.New("unknown category")

// Set assigns name to e, replacing any previous category.
func Set(e *store.Entry, name string) error {
	return header.Insert(e.Header(), PathValue, header.String(name))
}

// Get returns the category of e. found is false when none is assigned.
func Get(e *store.Entry) (name string, found bool, err error) {
	return header.ReadString(e.Header(), PathValue)
}

// Has reports whether e has a category.
func Has(e *store.Entry) (bool, error) {
	_, found, err := Get(e)

	return found, err
}

// Unset removes the category from e.
func Unset(e *store.Entry) error {
	_, err := header.Delete(e.Header(), PathValue)

	return err
}

// Register manages the known categories.
type Register struct {
	s *store.Store
}

// NewRegister returns the register stored in s.
func NewRegister(s *store.Store) *Register {
	return &Register{s: s}
}

func (r *Register) id(name string) (store.ID, error) {
	if name == "" {
		return store.ID{}, fmt.Errorf("%w: empty name", store.ErrInvalidPath)
	}

	return r.s.ModuleID(Module, name)
}

// Create registers name. Registering a known name fails with
// [store.ErrAlreadyExists].
func (r *Register) Create(name string) error {
	id, err := r.id(name)
	if err != nil {
		return err
	}

	g, err := r.s.Create(id)
	if err != nil {
		return err
	}

	err = header.Insert(g.Entry().Header(), PathRegisterName, header.String(name))
	if err != nil {
		g.Discard()

		return err
	}

	return g.Release()
}

// Exists reports whether name is registered.
func (r *Register) Exists(name string) (bool, error) {
	id, err := r.id(name)
	if err != nil {
		return false, err
	}

	return r.s.Exists(id)
}

// Delete unregisters name. Entries using it keep their value.
func (r *Register) Delete(name string) error {
	id, err := r.id(name)
	if err != nil {
		return err
	}

	return r.s.Delete(id)
}

// All returns the registered names in directory order.
func (r *Register) All() ([]string, error) {
	var names []string

	for id, err := range r.s.RetrieveForModule(Module) {
		if err != nil {
			return nil, err
		}

		names = append(names, id.Name())
	}

	return names, nil
}

// SetChecked assigns name to e only if it is registered.
func SetChecked(r *Register, e *store.Entry, name string) error {
	ok, err := r.Exists(name)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}

	return Set(e, name)
}
