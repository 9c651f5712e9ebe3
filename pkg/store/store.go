// Package store is a file-backed document store shared by independent domain
// modules.
//
// Every record is an [Entry]: a TOML header document plus free-form text,
// stored as one file at <root>/<module>/<name...>. The store knows nothing
// about module schemas; modules read and write their own header fields with
// the accessors in package [header].
//
// Entries are checked out exclusively. [Store.Create], [Store.Retrieve] and
// [Store.Get] hand out a [Guard]; while it is live, any other attempt to check
// out or delete the same id fails immediately with [ErrLocked]. Releasing the
// guard writes the entry back with an atomic rename, so readers only ever see
// a complete old or new file.
//
// The lock registry is process-local. Two processes sharing a root are not
// coordinated.
package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/calvinalkan/pimstore/pkg/fs"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Options configures [Open].
type Options struct {
	// FS is the filesystem used for all I/O. Default: [fs.NewReal].
	FS fs.FS

	// Logger receives debug events. Default: [zap.NewNop].
	Logger *zap.Logger
}

// Store owns a root directory and the registry of checked-out ids.
//
// Store methods are safe for concurrent use; the guards they return are not.
type Store struct {
	root   string
	fs     fs.FS
	writer *fs.AtomicWriter
	log    *zap.Logger

	mu         sync.Mutex
	checkedOut map[string]struct{}
}

// Open returns a store rooted at root, creating the directory if needed.
func Open(root string, opts Options) (*Store, error) {
	if root == "" {
		return nil, &Error{Kind: KindInvalidPath, Err: errors.New("store root is empty")}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: root, Err: err}
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	err = fsys.MkdirAll(abs, dirPerm)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: abs, Err: err}
	}

	return &Store{
		root:       abs,
		fs:         fsys,
		writer:     fs.NewAtomicWriter(fsys),
		log:        logger.Named("store"),
		checkedOut: make(map[string]struct{}),
	}, nil
}

// Root returns the absolute store root.
func (s *Store) Root() string { return s.root }

// NewID validates rel and returns an id under this store's root.
func (s *Store) NewID(rel string) (ID, error) { return NewID(s.root, rel) }

// ModuleID joins module and parts into an id under this store's root.
func (s *Store) ModuleID(module string, parts ...string) (ID, error) {
	return ModuleID(s.root, module, parts...)
}

// Create checks out a new, empty entry at id.
//
// The header is stamped with the [store] section. Nothing is written until
// the guard is persisted or released; that first write refuses to replace a
// file that appeared at id in the meantime.
func (s *Store) Create(id ID) (*Guard, error) {
	id, err := s.own(id)
	if err != nil {
		return nil, err
	}

	err = s.checkout(id)
	if err != nil {
		return nil, err
	}

	exists, err := s.fs.Exists(id.AbsPath())
	if err != nil {
		s.checkin(id)

		return nil, newError(KindIO, id, err)
	}

	if exists {
		s.checkin(id)

		return nil, newError(KindAlreadyExists, id, nil)
	}

	s.log.Debug("create", zap.String("id", id.Rel()))

	return &Guard{store: s, entry: newEntry(id), fresh: true}, nil
}

// Retrieve checks out the entry stored at id.
//
// It fails with [ErrNotFound] if no file exists, [ErrLocked] if id is
// already checked out and [ErrParse] if the file is not a valid entry.
func (s *Store) Retrieve(id ID) (*Guard, error) {
	g, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if g == nil {
		return nil, newError(KindNotFound, id.WithRoot(s.root), nil)
	}

	return g, nil
}

// Get is like [Store.Retrieve] but returns (nil, nil) when no file exists.
func (s *Store) Get(id ID) (*Guard, error) {
	return s.load(id)
}

func (s *Store) load(id ID) (*Guard, error) {
	id, err := s.own(id)
	if err != nil {
		return nil, err
	}

	err = s.checkout(id)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(id.AbsPath())
	if err != nil {
		s.checkin(id)

		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, newError(KindIO, id, err)
	}

	entry, err := parseEntry(id, data)
	if err != nil {
		s.checkin(id)

		return nil, newError(KindParse, id, err)
	}

	s.log.Debug("checkout", zap.String("id", id.Rel()), zap.Int("bytes", len(data)))

	return &Guard{store: s, entry: entry}, nil
}

// Delete removes the file at id.
//
// Deleting a checked-out id fails with [ErrLocked]; a missing file is
// [ErrNotFound].
func (s *Store) Delete(id ID) error {
	id, err := s.own(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkedOut[id.Rel()]; ok {
		return newError(KindLocked, id, nil)
	}

	err = s.fs.Remove(id.AbsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newError(KindNotFound, id, nil)
		}

		return newError(KindIO, id, err)
	}

	s.log.Debug("delete", zap.String("id", id.Rel()))

	return nil
}

// Persist writes the guard's entry to disk. It is the same as
// [Guard.Persist].
func (s *Store) Persist(g *Guard) error {
	return g.Persist()
}

// Update retrieves id, applies fn to the entry and releases the guard.
// If fn fails, the guard is discarded and nothing is written.
func (s *Store) Update(id ID, fn func(*Entry) error) error {
	g, err := s.Retrieve(id)
	if err != nil {
		return err
	}

	err = fn(g.Entry())
	if err != nil {
		g.Discard()

		return err
	}

	return g.Release()
}

// Exists reports whether a file exists at id.
func (s *Store) Exists(id ID) (bool, error) {
	id, err := s.own(id)
	if err != nil {
		return false, err
	}

	ok, err := s.fs.Exists(id.AbsPath())
	if err != nil {
		return false, newError(KindIO, id, err)
	}

	return ok, nil
}

// CheckedOut reports whether id is held by a live guard.
func (s *Store) CheckedOut(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.checkedOut[id.Rel()]

	return ok
}

func (s *Store) persist(g *Guard) error {
	id := g.entry.id

	data, err := g.entry.Marshal()
	if err != nil {
		return newError(KindWrite, id, err)
	}

	path := id.AbsPath()

	err = s.fs.MkdirAll(filepath.Dir(path), dirPerm)
	if err != nil {
		return newError(KindWrite, id, err)
	}

	err = s.writer.Write(path, bytes.NewReader(data), fs.AtomicWriteOptions{
		SyncDir:   true,
		Perm:      filePerm,
		NoReplace: g.fresh,
	})

	switch {
	case err == nil:
		g.fresh = false
	case errors.Is(err, fs.ErrAtomicWriteDirSync):
		// The rename went through; only durability is in question.
		g.fresh = false

		return newError(KindWrite, id, err)
	case g.fresh && errors.Is(err, os.ErrExist):
		return newError(KindAlreadyExists, id, err)
	default:
		return newError(KindWrite, id, err)
	}

	s.log.Debug("persist", zap.String("id", id.Rel()), zap.Int("bytes", len(data)))

	return nil
}

// own re-roots id onto the store and rejects the zero id.
func (s *Store) own(id ID) (ID, error) {
	if id.IsZero() {
		return ID{}, &Error{Kind: KindInvalidPath, Err: errors.New("zero id")}
	}

	return id.WithRoot(s.root), nil
}

func (s *Store) checkout(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkedOut[id.Rel()]; ok {
		return newError(KindLocked, id, nil)
	}

	s.checkedOut[id.Rel()] = struct{}{}

	return nil
}

func (s *Store) checkin(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.checkedOut, id.Rel())

	s.log.Debug("checkin", zap.String("id", id.Rel()))
}
