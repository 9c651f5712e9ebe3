// Package tag manages the sorted, de-duplicated tag list of an entry at
// "tag.values".
package tag

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Path is the header path of the tag list.
const Path = "tag.values"

// ErrInvalidTag is returned for names that are not valid tags.
var ErrInvalidTag = errors.New("invalid tag")

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Validate checks that t starts with a lowercase letter followed by
// lowercase letters, digits, '-' or '_'.
func Validate(t string) error {
	if !tagPattern.MatchString(t) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, t)
	}

	return nil
}

// All returns the tags of e, nil when there are none.
func All(e *store.Entry) ([]string, error) {
	tags, _, err := header.ReadStrings(e.Header(), Path)

	return tags, err
}

// Has reports whether e carries t.
func Has(e *store.Entry, t string) (bool, error) {
	tags, err := All(e)
	if err != nil {
		return false, err
	}

	return slices.Contains(tags, t), nil
}

// Add adds t to e. Adding a present tag is a no-op.
func Add(e *store.Entry, t string) error {
	tags, err := All(e)
	if err != nil {
		return err
	}

	return Set(e, append(tags, t))
}

// Remove removes t from e and reports whether it was present.
func Remove(e *store.Entry, t string) (bool, error) {
	tags, err := All(e)
	if err != nil {
		return false, err
	}

	i := slices.Index(tags, t)
	if i < 0 {
		return false, nil
	}

	return true, Set(e, slices.Delete(tags, i, i+1))
}

// Set replaces the tags of e. Every tag is validated; the stored list is
// sorted and de-duplicated.
func Set(e *store.Entry, tags []string) error {
	for _, t := range tags {
		err := Validate(t)
		if err != nil {
			return err
		}
	}

	tags = slices.Clone(tags)
	slices.Sort(tags)
	tags = slices.Compact(tags)

	return header.Insert(e.Header(), Path, header.StringArray(tags))
}
