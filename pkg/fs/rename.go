package fs

import (
	"fmt"
	"os"
)

// linkRename emulates a no-replace rename with link(2), which fails with
// EEXIST when newpath exists, followed by removing oldpath.
func linkRename(oldpath, newpath string) error {
	err := os.Link(oldpath, newpath)
	if err != nil {
		return err
	}

	err = os.Remove(oldpath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q after link: %w", oldpath, err)
	}

	return nil
}
