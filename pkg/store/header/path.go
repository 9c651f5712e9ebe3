package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// segment is one step of a dotted path: a table key or an array index.
type segment struct {
	key     string
	index   int
	isIndex bool
}

func (s segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}

	return s.key
}

// parsePath splits a dotted path into segments.
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, &Error{Kind: KindInvalidPath, Err: errors.New("empty path")}
	}

	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))

	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, &Error{Kind: KindInvalidPath, Path: path, Segment: part, Err: err}
		}

		segs = append(segs, seg)
	}

	return segs, nil
}

func parseSegment(part string) (segment, error) {
	if part == "" {
		return segment{}, errors.New("empty segment")
	}

	if !strings.HasPrefix(part, "[") {
		if strings.ContainsAny(part, "[]") {
			return segment{}, errors.New("brackets are only allowed in index segments")
		}

		return segment{key: part}, nil
	}

	digits, ok := strings.CutSuffix(part[1:], "]")
	if !ok || digits == "" {
		return segment{}, errors.New("unterminated index")
	}

	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 0 {
		return segment{}, fmt.Errorf("index %q is not a non-negative integer", digits)
	}

	return segment{index: idx, isIndex: true}, nil
}

// JoinPath joins keys into a dotted path.
func JoinPath(keys ...string) string {
	return strings.Join(keys, ".")
}
