package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrAtomicWriteDirSync is joined into the error when the rename succeeded
// but the parent directory could not be synced. The new file is in place;
// only its durability is in question.
var ErrAtomicWriteDirSync = errors.New("dir sync")

// AtomicWriter replaces files by writing a temp file next to the target and
// renaming it over. Readers see either the old or the new file, never a
// partial one.
//
// Temp files are named ".<base>.tmp-<n>", so they are dot files and never
// show up as store entries.
type AtomicWriter struct {
	fs FS
}

// NewAtomicWriter returns a writer doing all I/O through fsys.
func NewAtomicWriter(fsys FS) *AtomicWriter {
	if fsys == nil {
		panic("fs is nil")
	}

	return &AtomicWriter{fs: fsys}
}

// AtomicWriteOptions configures [AtomicWriter.Write].
type AtomicWriteOptions struct {
	// SyncDir syncs the parent directory after the rename.
	SyncDir bool

	// Perm is applied with chmod, so the umask does not apply. Required.
	Perm os.FileMode

	// NoReplace fails the rename with an error matching [os.ErrExist] when
	// path already exists. The store sets it for the first write of a
	// created entry.
	NoReplace bool
}

// DefaultOptions returns SyncDir with mode 0644.
func (*AtomicWriter) DefaultOptions() AtomicWriteOptions {
	return AtomicWriteOptions{SyncDir: true, Perm: 0o644}
}

// WriteWithDefaults is Write with [AtomicWriter.DefaultOptions].
func (w *AtomicWriter) WriteWithDefaults(path string, r io.Reader) error {
	return w.Write(path, r, w.DefaultOptions())
}

// Write copies r into a synced temp file and renames it to path.
//
// If anything before the rename fails, path is untouched and the temp file is
// removed. A failing directory sync after the rename matches
// [ErrAtomicWriteDirSync].
func (w *AtomicWriter) Write(path string, r io.Reader, opts AtomicWriteOptions) error {
	if r == nil {
		panic("reader is nil")
	}

	if opts.Perm == 0 {
		return errors.New("opts.Perm must be non-zero")
	}

	dir, base := filepath.Split(path)
	if base == "" || base == "." || base == string(os.PathSeparator) {
		return fmt.Errorf("path is invalid: %q", path)
	}

	if dir == "" {
		dir = "."
	}

	dir = filepath.Clean(dir)

	tmp, tmpPath, err := w.createTemp(dir, base, opts.Perm)
	if err != nil {
		return err
	}

	discard := func() error {
		return errors.Join(closeFile("temp file", tmpPath, tmp), w.removeTemp(tmpPath))
	}

	err = fill(tmp, tmpPath, r, opts.Perm)
	if err != nil {
		return errors.Join(err, discard())
	}

	if opts.NoReplace {
		err = w.fs.RenameNoReplace(tmpPath, path)
	} else {
		err = w.fs.Rename(tmpPath, path)
	}

	if err != nil {
		return errors.Join(fmt.Errorf("rename: %w", err), discard())
	}

	// The temp name is gone after the rename; only the handle is left to close.
	_ = discard()

	if !opts.SyncDir {
		return nil
	}

	return w.syncDir(dir)
}

// fill sets perm on the temp file, copies r into it and syncs it.
func fill(f File, path string, r io.Reader, perm os.FileMode) error {
	err := f.Chmod(perm)
	if err != nil {
		return fmt.Errorf("chmod temp file %q: %w", path, err)
	}

	_, err = io.Copy(f, r)
	if err != nil {
		return fmt.Errorf("write temp file %q: %w", path, err)
	}

	err = f.Sync()
	if err != nil {
		return fmt.Errorf("sync temp file %q: %w", path, err)
	}

	return nil
}

const maxTempAttempts = 10000

var tempSeq atomic.Uint64

func (w *AtomicWriter) createTemp(dir, base string, perm os.FileMode) (File, string, error) {
	for range maxTempAttempts {
		path := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", base, tempSeq.Add(1)))

		f, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, path, nil
		}

		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("create temp file: %w", err)
		}
	}

	return nil, "", fmt.Errorf("exhausted temp file attempts in %q", dir)
}

func (w *AtomicWriter) removeTemp(path string) error {
	err := w.fs.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp file %q: %w", path, err)
	}

	return nil
}

func (w *AtomicWriter) syncDir(dir string) error {
	d, err := w.fs.Open(dir)
	if err != nil {
		return errors.Join(ErrAtomicWriteDirSync, fmt.Errorf("open dir %q: %w", dir, err))
	}

	err = d.Sync()
	closeErr := closeFile("dir", dir, d)

	if err != nil {
		return errors.Join(ErrAtomicWriteDirSync, fmt.Errorf("%q: %w", dir, err), closeErr)
	}

	return closeErr
}

func closeFile(what, path string, f File) error {
	err := f.Close()
	if err != nil {
		return fmt.Errorf("close %s %q: %w", what, path, err)
	}

	return nil
}
