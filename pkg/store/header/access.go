package header

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Read looks up path in h.
//
// It returns (nil, nil) if any segment is absent. It fails with [ErrType]
// only when a segment exists but is not the table or array the next segment
// needs.
func Read(h *Node, path string) (*Node, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	cur := h

	for _, seg := range segs {
		next, err := step(cur, seg, path)
		if err != nil {
			return nil, err
		}

		if next == nil {
			return nil, nil
		}

		cur = next
	}

	return cur, nil
}

// Insert stores value at path, creating intermediate tables (or arrays, when
// the following segment is an index) as needed.
//
// An existing leaf is overwritten whatever its kind. An index equal to the
// array length appends. Intermediate nodes of the wrong kind fail with
// [ErrType]. On failure h is unchanged: missing intermediates are built
// detached and attached only once the leaf is in place.
func Insert(h *Node, path string, value *Node) error {
	if value == nil {
		return &Error{Kind: KindInvalidPath, Path: path, Err: errors.New("nil value")}
	}

	segs, err := parsePath(path)
	if err != nil {
		return err
	}

	parent := h

	for i, seg := range segs[:len(segs)-1] {
		next, err := step(parent, seg, path)
		if err != nil {
			return err
		}

		if next == nil {
			chain, err := detachedChain(segs[i+1:], value, path)
			if err != nil {
				return err
			}

			return put(parent, seg, chain, path)
		}

		parent = next
	}

	return put(parent, segs[len(segs)-1], value, path)
}

// detachedChain builds the containers for segs, the path below a missing
// node, with value at the leaf.
func detachedChain(segs []segment, value *Node, path string) (*Node, error) {
	root := emptyContainerFor(segs[0])
	cur := root

	for i, seg := range segs[:len(segs)-1] {
		next := emptyContainerFor(segs[i+1])

		err := put(cur, seg, next, path)
		if err != nil {
			return nil, err
		}

		cur = next
	}

	err := put(cur, segs[len(segs)-1], value, path)
	if err != nil {
		return nil, err
	}

	return root, nil
}

// Set replaces the node at path with value and returns the previous node.
//
// Unlike [Insert], the full path must already exist; otherwise Set fails
// with [ErrMissing] and h is unchanged. The kind of the previous node is not
// checked.
func Set(h *Node, path string, value *Node) (*Node, error) {
	if value == nil {
		return nil, &Error{Kind: KindInvalidPath, Path: path, Err: errors.New("nil value")}
	}

	parent, last, prev, err := locate(h, path)
	if err != nil {
		return nil, err
	}

	if prev == nil {
		return nil, &Error{Kind: KindMissing, Path: path, Segment: last.String(), Err: errors.New("no such field")}
	}

	err = put(parent, last, value, path)
	if err != nil {
		return nil, err
	}

	return prev, nil
}

// Delete removes the node at path and returns it. Deleting an absent path
// returns (nil, nil). Removing an array item shifts the following items down.
func Delete(h *Node, path string) (*Node, error) {
	parent, last, prev, err := locate(h, path)
	if err != nil || prev == nil {
		return nil, err
	}

	if last.isIndex {
		parent.array = slices.Delete(parent.array, last.index, last.index+1)
	} else {
		delete(parent.table, last.key)
	}

	return prev, nil
}

// ReadString reads a string at path. found is false when the path is absent.
func ReadString(h *Node, path string) (value string, found bool, err error) {
	return readAs(h, path, KindString, (*Node).AsString)
}

// ReadInteger reads an integer at path.
func ReadInteger(h *Node, path string) (value int64, found bool, err error) {
	return readAs(h, path, KindInteger, (*Node).AsInteger)
}

// ReadFloat reads a float at path.
func ReadFloat(h *Node, path string) (value float64, found bool, err error) {
	return readAs(h, path, KindFloat, (*Node).AsFloat)
}

// ReadBool reads a boolean at path.
func ReadBool(h *Node, path string) (value bool, found bool, err error) {
	return readAs(h, path, KindBoolean, (*Node).AsBool)
}

// ReadDatetime reads a datetime at path.
func ReadDatetime(h *Node, path string) (value time.Time, found bool, err error) {
	return readAs(h, path, KindDatetime, (*Node).AsDatetime)
}

// ReadArray reads an array at path.
func ReadArray(h *Node, path string) (value []*Node, found bool, err error) {
	return readAs(h, path, KindArray, (*Node).AsArray)
}

// ReadTable reads a table at path.
func ReadTable(h *Node, path string) (value map[string]*Node, found bool, err error) {
	return readAs(h, path, KindTable, (*Node).AsTable)
}

// ReadStrings reads an array of strings at path. Any non-string item is a
// type error.
func ReadStrings(h *Node, path string) ([]string, bool, error) {
	items, found, err := ReadArray(h, path)
	if err != nil || !found {
		return nil, found, err
	}

	out := make([]string, len(items))

	for i, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil, true, typeError(path, segment{index: i, isIndex: true}, KindString, item.Kind())
		}

		out[i] = s
	}

	return out, true, nil
}

func readAs[T any](h *Node, path string, want Kind, get func(*Node) (T, bool)) (T, bool, error) {
	var zero T

	n, err := Read(h, path)
	if err != nil {
		return zero, false, err
	}

	if n == nil {
		return zero, false, nil
	}

	v, ok := get(n)
	if !ok {
		return zero, true, &Error{Kind: KindType, Path: path, Err: fmt.Errorf("want %s, got %s", want, n.Kind())}
	}

	return v, true, nil
}

// step descends one segment. It returns (nil, nil) when the child is absent.
func step(cur *Node, seg segment, path string) (*Node, error) {
	if seg.isIndex {
		if cur.Kind() != KindArray {
			return nil, typeError(path, seg, KindArray, cur.Kind())
		}

		if seg.index >= len(cur.array) {
			return nil, nil
		}

		return cur.array[seg.index], nil
	}

	if cur.Kind() != KindTable {
		return nil, typeError(path, seg, KindTable, cur.Kind())
	}

	return cur.table[seg.key], nil
}

// put stores value under seg in parent.
func put(parent *Node, seg segment, value *Node, path string) error {
	if !seg.isIndex {
		if parent.Kind() != KindTable {
			return typeError(path, seg, KindTable, parent.Kind())
		}

		parent.table[seg.key] = value

		return nil
	}

	if parent.Kind() != KindArray {
		return typeError(path, seg, KindArray, parent.Kind())
	}

	switch {
	case seg.index < len(parent.array):
		parent.array[seg.index] = value
	case seg.index == len(parent.array):
		parent.array = append(parent.array, value)
	default:
		return &Error{
			Kind:    KindMissing,
			Path:    path,
			Segment: seg.String(),
			Err:     fmt.Errorf("index out of range (len %d)", len(parent.array)),
		}
	}

	return nil
}

// locate walks to the parent of the last segment. prev is the current node
// at path, nil when absent (including absent intermediates).
func locate(h *Node, path string) (parent *Node, last segment, prev *Node, err error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, segment{}, nil, err
	}

	parent = h

	for _, seg := range segs[:len(segs)-1] {
		next, err := step(parent, seg, path)
		if err != nil {
			return nil, segment{}, nil, err
		}

		if next == nil {
			return nil, seg, nil, nil
		}

		parent = next
	}

	last = segs[len(segs)-1]

	prev, err = step(parent, last, path)
	if err != nil {
		return nil, segment{}, nil, err
	}

	return parent, last, prev, nil
}

func emptyContainerFor(next segment) *Node {
	if next.isIndex {
		return &Node{kind: KindArray}
	}

	return NewTable()
}

func typeError(path string, seg segment, want, got Kind) error {
	return &Error{
		Kind:    KindType,
		Path:    path,
		Segment: seg.String(),
		Err:     fmt.Errorf("want %s, got %s", want, got),
	}
}

// RequireTable returns the table at path, creating it when absent. It fails
// with [ErrType] if a non-table node already sits at path.
func RequireTable(h *Node, path string) (*Node, error) {
	n, err := Read(h, path)
	if err != nil {
		return nil, err
	}

	if n == nil {
		n = NewTable()

		err = Insert(h, path, n)
		if err != nil {
			return nil, err
		}

		return n, nil
	}

	if n.Kind() != KindTable {
		return nil, &Error{Kind: KindType, Path: path, Err: fmt.Errorf("want table, got %s", n.Kind())}
	}

	return n, nil
}
