package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"strings"
	"sync"
	"syscall"
)

// Op names an operation [Faulty] can intercept.
type Op string

// Intercepted operations. File-level operations (write, sync, close) apply to
// handles returned by Open/OpenFile.
const (
	OpOpen     Op = "open"
	OpOpenFile Op = "openfile"
	OpReadFile Op = "readfile"
	OpReadDir  Op = "readdir"
	OpMkdirAll Op = "mkdirall"
	OpStat     Op = "stat"
	OpRemove   Op = "remove"
	OpRename   Op = "rename"
	OpWrite    Op = "write"
	OpSync     Op = "sync"
	OpClose    Op = "close"
)

// Fault decides whether an operation fails. A nil return lets it through.
// For renames, path is the destination.
type Fault func(op Op, path string) error

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message prefixed with "injected: ".
func (e *InjectedError) Error() string {
	return "injected: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails operations chosen by registered [Fault]s.
//
// Unlike a random fault injector, Faulty is deterministic: a test registers
// exactly the failure it wants to observe ("fail the rename into
// notes/groceries", "cut the temp file write short").
//
// A faulted File.Write is a partial write: the first half of the buffer
// reaches the underlying file before the error is returned, which is what an
// interrupted write leaves behind.
type Faulty struct {
	fs FS

	mu     sync.Mutex
	faults []Fault
	hits   map[Op]int
}

// NewFaulty wraps underlying. Panics if underlying is nil.
func NewFaulty(underlying FS) *Faulty {
	if underlying == nil {
		panic("fs is nil")
	}

	return &Faulty{fs: underlying, hits: make(map[Op]int)}
}

// Inject registers fault. Faults are consulted in registration order.
func (f *Faulty) Inject(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults = append(f.faults, fault)
}

// Reset removes all faults and hit counters.
func (f *Faulty) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults = nil
	f.hits = make(map[Op]int)
}

// Hits returns how many times op was failed.
func (f *Faulty) Hits(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hits[op]
}

// FailOp returns a [Fault] failing op with EIO whenever path contains substr.
// An empty substr matches every path.
func FailOp(op Op, substr string) Fault {
	return func(got Op, path string) error {
		if got != op || !strings.Contains(path, substr) {
			return nil
		}

		return syscall.EIO
	}
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fault := range f.faults {
		errno := fault(op, path)
		if errno == nil {
			continue
		}

		f.hits[op]++

		if op == OpRename {
			return &InjectedError{Err: &os.LinkError{Op: string(op), Old: "", New: path, Err: errno}}
		}

		return &InjectedError{Err: &iofs.PathError{Op: string(op), Path: path, Err: errno}}
	}

	return nil
}

// Open implements [FS].
func (f *Faulty) Open(path string) (File, error) {
	err := f.check(OpOpen, path)
	if err != nil {
		return nil, err
	}

	file, err := f.fs.Open(path)
	if err != nil {
		return nil, err
	}

	return &faultyFile{f: file, faulty: f, path: path}, nil
}

// OpenFile implements [FS].
func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	err := f.check(OpOpenFile, path)
	if err != nil {
		return nil, err
	}

	file, err := f.fs.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultyFile{f: file, faulty: f, path: path}, nil
}

// ReadFile implements [FS].
func (f *Faulty) ReadFile(path string) ([]byte, error) {
	err := f.check(OpReadFile, path)
	if err != nil {
		return nil, err
	}

	return f.fs.ReadFile(path)
}

// ReadDir implements [FS].
func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	err := f.check(OpReadDir, path)
	if err != nil {
		return nil, err
	}

	return f.fs.ReadDir(path)
}

// MkdirAll implements [FS].
func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	err := f.check(OpMkdirAll, path)
	if err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

// Stat implements [FS].
func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	err := f.check(OpStat, path)
	if err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

// Exists implements [FS]. It is faulted through [OpStat].
func (f *Faulty) Exists(path string) (bool, error) {
	err := f.check(OpStat, path)
	if err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

// Remove implements [FS].
func (f *Faulty) Remove(path string) error {
	err := f.check(OpRemove, path)
	if err != nil {
		return err
	}

	return f.fs.Remove(path)
}

// Rename implements [FS].
func (f *Faulty) Rename(oldpath, newpath string) error {
	err := f.check(OpRename, newpath)
	if err != nil {
		return err
	}

	return f.fs.Rename(oldpath, newpath)
}

// RenameNoReplace implements [FS]. It is faulted through [OpRename].
func (f *Faulty) RenameNoReplace(oldpath, newpath string) error {
	err := f.check(OpRename, newpath)
	if err != nil {
		return err
	}

	return f.fs.RenameNoReplace(oldpath, newpath)
}

var _ FS = (*Faulty)(nil)

// faultyFile wraps a [File] and applies write/sync/close faults.
type faultyFile struct {
	f      File
	faulty *Faulty
	path   string
}

var _ File = (*faultyFile)(nil)

func (ff *faultyFile) Read(buf []byte) (int, error) {
	return ff.f.Read(buf)
}

func (ff *faultyFile) Write(data []byte) (int, error) {
	err := ff.faulty.check(OpWrite, ff.path)
	if err == nil {
		return ff.f.Write(data)
	}

	if len(data) < 2 {
		return 0, err
	}

	wrote, writeErr := ff.f.Write(data[:len(data)/2])
	if writeErr != nil {
		return wrote, writeErr
	}

	return wrote, err
}

func (ff *faultyFile) Close() error {
	err := ff.faulty.check(OpClose, ff.path)

	closeErr := ff.f.Close()
	if err != nil {
		return err
	}

	return closeErr
}

func (ff *faultyFile) Seek(offset int64, whence int) (int64, error) {
	return ff.f.Seek(offset, whence)
}

func (ff *faultyFile) Fd() uintptr {
	return ff.f.Fd()
}

func (ff *faultyFile) Stat() (os.FileInfo, error) {
	return ff.f.Stat()
}

func (ff *faultyFile) Sync() error {
	err := ff.faulty.check(OpSync, ff.path)
	if err != nil {
		return err
	}

	return ff.f.Sync()
}

func (ff *faultyFile) Chmod(mode os.FileMode) error {
	return ff.f.Chmod(mode)
}
