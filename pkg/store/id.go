package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ID identifies an entry by its path relative to a store root, for example
// "diary/work/2016/04/01T13:00". The first segment names the owning module.
//
// The root travels with the id as context only. Equality and ordering look at
// the relative path alone, so callers must not compare ids that were built
// against different roots; re-root one with [ID.WithRoot] first.
//
// The zero ID is not valid; use [NewID].
type ID struct {
	root string
	rel  string
}

// NewID validates rel and returns an id rooted at root.
//
// rel is slash-separated and must stay inside the root: it may not be empty
// or absolute, and no segment may be empty, "." or "..". Segments starting
// with "." are reserved for store internals (temp files), and NUL and
// backslash are rejected. An id needs at least two segments, the module and
// a name within it.
func NewID(root, rel string) (ID, error) {
	err := validateRel(rel)
	if err != nil {
		return ID{}, &Error{Kind: KindInvalidPath, ID: rel, Err: err}
	}

	if root != "" {
		root = filepath.Clean(root)
	}

	return ID{root: root, rel: rel}, nil
}

// ModuleID joins module and parts into an id rooted at root.
func ModuleID(root, module string, parts ...string) (ID, error) {
	return NewID(root, strings.Join(append([]string{module}, parts...), "/"))
}

// IDFromPath converts an on-disk path below root back into an id.
func IDFromPath(root, path string) (ID, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ID{}, &Error{Kind: KindInvalidPath, Path: path, Err: err}
	}

	return NewID(root, filepath.ToSlash(rel))
}

func validateRel(rel string) error {
	if rel == "" {
		return errors.New("empty id")
	}

	if strings.ContainsAny(rel, "\x00\\") {
		return errors.New("id contains NUL or backslash")
	}

	if strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) {
		return errors.New("id must be relative")
	}

	segments := strings.Split(rel, "/")

	for _, seg := range segments {
		switch {
		case seg == "":
			return errors.New("empty path segment")
		case seg == "." || seg == "..":
			return fmt.Errorf("segment %q escapes the store root", seg)
		case strings.HasPrefix(seg, "."):
			return fmt.Errorf("segment %q is reserved", seg)
		}
	}

	if len(segments) < 2 {
		return errors.New("id must name a module and an entry")
	}

	return nil
}

// Rel returns the slash-separated relative path.
func (id ID) Rel() string { return id.rel }

// String returns the relative path.
func (id ID) String() string { return id.rel }

// Root returns the store root the id was built against.
func (id ID) Root() string { return id.root }

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id.rel == "" }

// Module returns the first path segment.
func (id ID) Module() string {
	module, _, _ := strings.Cut(id.rel, "/")

	return module
}

// Name returns the last path segment.
func (id ID) Name() string {
	return id.rel[strings.LastIndexByte(id.rel, '/')+1:]
}

// Segments returns the path segments.
func (id ID) Segments() []string {
	if id.rel == "" {
		return nil
	}

	return strings.Split(id.rel, "/")
}

// Path joins root and the relative path using the OS separator.
func (id ID) Path(root string) string {
	return filepath.Join(root, filepath.FromSlash(id.rel))
}

// AbsPath is Path(id.Root()).
func (id ID) AbsPath() string {
	return id.Path(id.root)
}

// WithRoot returns the same relative id under another root.
func (id ID) WithRoot(root string) ID {
	return ID{root: filepath.Clean(root), rel: id.rel}
}

// Equal compares relative paths. The root is ignored.
func (id ID) Equal(other ID) bool {
	return id.rel == other.rel
}

// Compare orders ids by relative path.
func (id ID) Compare(other ID) int {
	return strings.Compare(id.rel, other.rel)
}

// Less reports whether id sorts before other.
func (id ID) Less(other ID) bool {
	return id.rel < other.rel
}
