package fs

import (
	"os"
)

// Real is the [FS] the store uses outside tests. Methods call straight
// through to [os].
type Real struct{}

// NewReal returns a [Real].
func NewReal() *Real {
	return &Real{}
}

func (*Real) Open(path string) (File, error) {
	return os.Open(path)
}

func (*Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

// ReadFile is used to load entries and to hash them.
func (*Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir returns names sorted, which gives entry enumeration its order.
func (*Real) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (*Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports (false, nil) for a missing path and (false, err) when the
// stat itself fails.
func (*Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)

	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

func (*Real) Remove(path string) error {
	return os.Remove(path)
}

func (*Real) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// RenameNoReplace fails with an error matching [os.ErrExist] when newpath
// exists. Linux uses renameat2; elsewhere link and unlink.
func (*Real) RenameNoReplace(oldpath, newpath string) error {
	return renameNoReplace(oldpath, newpath)
}

var _ FS = (*Real)(nil)
