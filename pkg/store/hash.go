package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// HashLen is the length of a full entry hash in hex digits.
const HashLen = sha256.Size * 2

// Hash returns the lowercase hex SHA-256 of the file stored at id.
//
// The hash covers the serialized bytes on disk, not the in-memory state of a
// checked-out entry.
func (s *Store) Hash(id ID) (string, error) {
	id, err := s.own(id)
	if err != nil {
		return "", err
	}

	data, err := s.fs.ReadFile(id.AbsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", newError(KindNotFound, id, nil)
		}

		return "", newError(KindIO, id, err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}

// FindByPartialHash resolves a hash prefix to an entry id.
//
// The prefix is matched case-insensitively against every entry's [Store.Hash].
// No match returns found=false. More than one match fails with
// [ErrAmbiguousHash]; the error's Candidates list every matching id, sorted.
// A prefix that is empty or not hex fails with [ErrInvalidHash].
//
// Hashes are computed from disk on every call and not cached between calls.
func (s *Store) FindByPartialHash(prefix string) (ID, bool, error) {
	prefix, err := normalizeHashPrefix(prefix)
	if err != nil {
		return ID{}, false, err
	}

	var (
		matches []ID
		scanned int
	)

	for id, err := range s.Entries() {
		if err != nil {
			return ID{}, false, err
		}

		sum, err := s.Hash(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Removed while we were walking.
				continue
			}

			return ID{}, false, err
		}

		scanned++

		if strings.HasPrefix(sum, prefix) {
			matches = append(matches, id)
		}
	}

	s.log.Debug("hash scan",
		zap.String("prefix", prefix),
		zap.Int("scanned", scanned),
		zap.Int("matches", len(matches)))

	switch len(matches) {
	case 0:
		return ID{}, false, nil
	case 1:
		return matches[0], true, nil
	}

	slices.SortFunc(matches, ID.Compare)

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = m.Rel()
	}

	return ID{}, false, &Error{
		Kind:       KindAmbiguousHash,
		Candidates: candidates,
		Err:        fmt.Errorf("prefix %q matches %d entries", prefix, len(matches)),
	}
}

func normalizeHashPrefix(prefix string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(prefix))

	switch {
	case p == "":
		return "", &Error{Kind: KindInvalidHash, Err: errors.New("empty prefix")}
	case len(p) > HashLen:
		return "", &Error{Kind: KindInvalidHash, Err: fmt.Errorf("prefix %q is longer than %d digits", prefix, HashLen)}
	}

	for _, c := range p {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return "", &Error{Kind: KindInvalidHash, Err: fmt.Errorf("prefix %q is not hexadecimal", prefix)}
		}
	}

	return p, nil
}
