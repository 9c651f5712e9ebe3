package store

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// RetrieveForModule yields the ids of every entry file below the module
// directory. The walk is lazy and depth-first in directory order; dot files
// and dot directories (temp files) are skipped. A missing module directory
// yields nothing.
//
// Each range over the returned sequence walks the tree afresh. An I/O error
// is yielded once and ends the walk.
func (s *Store) RetrieveForModule(module string) iter.Seq2[ID, error] {
	return func(yield func(ID, error) bool) {
		err := validateModule(module)
		if err != nil {
			yield(ID{}, &Error{Kind: KindInvalidPath, ID: module, Err: err})

			return
		}

		s.walk(filepath.Join(s.root, module), yield)
	}
}

// Entries yields the ids of every entry in the store, module by module.
func (s *Store) Entries() iter.Seq2[ID, error] {
	return func(yield func(ID, error) bool) {
		modules, err := s.Modules()
		if err != nil {
			yield(ID{}, err)

			return
		}

		for _, module := range modules {
			if !s.walk(filepath.Join(s.root, module), yield) {
				return
			}
		}
	}
}

// Modules returns the names of the top-level module directories, sorted.
func (s *Store) Modules() ([]string, error) {
	dirents, err := s.fs.ReadDir(s.root)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: s.root, Err: err}
	}

	var modules []string

	for _, d := range dirents {
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			modules = append(modules, d.Name())
		}
	}

	return modules, nil
}

// walk yields the entry files under dir. It returns false once yield asks to
// stop or an error was yielded.
func (s *Store) walk(dir string, yield func(ID, error) bool) bool {
	dirents, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true
		}

		yield(ID{}, &Error{Kind: KindIO, Path: dir, Err: err})

		return false
	}

	for _, d := range dirents {
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)

		switch {
		case d.IsDir():
			if !s.walk(path, yield) {
				return false
			}
		case d.Type().IsRegular():
			id, err := IDFromPath(s.root, path)
			if err != nil {
				// Names the id rules reject (e.g. with a backslash) are not entries.
				continue
			}

			if !yield(id, nil) {
				return false
			}
		}
	}

	return true
}

func validateModule(module string) error {
	switch {
	case module == "":
		return errors.New("empty module name")
	case strings.ContainsAny(module, "/\\\x00"):
		return fmt.Errorf("module %q must be a single path segment", module)
	case strings.HasPrefix(module, "."):
		return fmt.Errorf("module %q is reserved", module)
	}

	return nil
}
