// Package header implements the structured header document attached to
// every store entry, plus a dotted-path accessor over it.
//
// A header is a tree of [Node] values. The node kinds mirror TOML: strings,
// 64-bit integers, floats, booleans, datetimes, arrays and tables. The root of
// a header is always a table.
//
// Paths address nodes with dot-separated keys. A segment of the form [N]
// indexes into an array:
//
//	store.version
//	tag.values.[0]
//	timetrack.start
//
// The store itself knows nothing about per-module schemas. Modules implement
// their fields purely with [Read], [Insert], [Set] and [Delete] plus their own
// path constants.
package header

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"
)

// Kind identifies the type of a [Node].
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDatetime
	KindArray
	KindTable
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindBoolean:  "boolean",
	KindDatetime: "datetime",
	KindArray:    "array",
	KindTable:    "table",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", k)
}

// Node is one value in a header document.
//
// Only the field matching Kind is meaningful. Nodes are created with the
// constructors ([String], [Integer], ...) and read with the As* methods.
// Arrays and tables hold child pointers, so mutating a child found through
// [Read] mutates the document.
type Node struct {
	kind  Kind
	str   string
	num   int64
	float float64
	flag  bool
	time  time.Time
	array []*Node
	table map[string]*Node
}

// String returns a string node.
func String(s string) *Node { return &Node{kind: KindString, str: s} }

// Integer returns an integer node.
func Integer(i int64) *Node { return &Node{kind: KindInteger, num: i} }

// Float returns a float node.
func Float(f float64) *Node { return &Node{kind: KindFloat, float: f} }

// Boolean returns a boolean node.
func Boolean(b bool) *Node { return &Node{kind: KindBoolean, flag: b} }

// Datetime returns a datetime node. TOML local date/time variants decoded by
// [Unmarshal] or [ParseDatetime] keep their flavor when re-encoded.
func Datetime(t time.Time) *Node { return &Node{kind: KindDatetime, time: t} }

// Array returns an array node holding items. Nil items are dropped.
func Array(items ...*Node) *Node {
	arr := make([]*Node, 0, len(items))

	for _, item := range items {
		if item != nil {
			arr = append(arr, item)
		}
	}

	return &Node{kind: KindArray, array: arr}
}

// StringArray returns an array node of strings.
func StringArray(items []string) *Node {
	arr := make([]*Node, len(items))
	for i, item := range items {
		arr[i] = String(item)
	}

	return &Node{kind: KindArray, array: arr}
}

// NewTable returns an empty table node.
func NewTable() *Node { return &Node{kind: KindTable, table: map[string]*Node{}} }

// Table returns a table node holding entries. Nil values are dropped.
func Table(entries map[string]*Node) *Node {
	tbl := make(map[string]*Node, len(entries))

	for k, v := range entries {
		if v != nil {
			tbl[k] = v
		}
	}

	return &Node{kind: KindTable, table: tbl}
}

// Kind returns the node kind. A nil node reports [KindInvalid].
func (n *Node) Kind() Kind {
	if n == nil {
		return KindInvalid
	}

	return n.kind
}

// AsString returns the string value and whether n is a string.
func (n *Node) AsString() (string, bool) {
	if n.Kind() != KindString {
		return "", false
	}

	return n.str, true
}

// AsInteger returns the integer value and whether n is an integer.
func (n *Node) AsInteger() (int64, bool) {
	if n.Kind() != KindInteger {
		return 0, false
	}

	return n.num, true
}

// AsFloat returns the float value and whether n is a float.
func (n *Node) AsFloat() (float64, bool) {
	if n.Kind() != KindFloat {
		return 0, false
	}

	return n.float, true
}

// AsBool returns the boolean value and whether n is a boolean.
func (n *Node) AsBool() (bool, bool) {
	if n.Kind() != KindBoolean {
		return false, false
	}

	return n.flag, true
}

// AsDatetime returns the datetime value and whether n is a datetime.
func (n *Node) AsDatetime() (time.Time, bool) {
	if n.Kind() != KindDatetime {
		return time.Time{}, false
	}

	return n.time, true
}

// AsArray returns the array items and whether n is an array.
// The slice is the node's own storage; do not append to it.
func (n *Node) AsArray() ([]*Node, bool) {
	if n.Kind() != KindArray {
		return nil, false
	}

	return n.array, true
}

// AsTable returns the table entries and whether n is a table.
// The map is the node's own storage.
func (n *Node) AsTable() (map[string]*Node, bool) {
	if n.Kind() != KindTable {
		return nil, false
	}

	return n.table, true
}

// Len returns the number of items of an array or entries of a table, 0 otherwise.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.array)
	case KindTable:
		return len(n.table)
	default:
		return 0
	}
}

// Keys returns the sorted keys of a table node, nil otherwise.
func (n *Node) Keys() []string {
	if n.Kind() != KindTable {
		return nil
	}

	return slices.Sorted(maps.Keys(n.table))
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	out := *n

	switch n.kind {
	case KindArray:
		out.array = make([]*Node, len(n.array))
		for i, item := range n.array {
			out.array[i] = item.Clone()
		}
	case KindTable:
		out.table = make(map[string]*Node, len(n.table))
		for k, v := range n.table {
			out.table[k] = v.Clone()
		}
	}

	return &out
}

// Equal reports whether n and other are deeply equal. Datetimes compare with
// [time.Time.Equal]; floats compare by value with NaN equal to NaN.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.kind != other.kind {
		return false
	}

	switch n.kind {
	case KindString:
		return n.str == other.str
	case KindInteger:
		return n.num == other.num
	case KindFloat:
		return n.float == other.float || (math.IsNaN(n.float) && math.IsNaN(other.float))
	case KindBoolean:
		return n.flag == other.flag
	case KindDatetime:
		return n.time.Equal(other.time)
	case KindArray:
		return slices.EqualFunc(n.array, other.array, (*Node).Equal)
	case KindTable:
		return maps.EqualFunc(n.table, other.table, (*Node).Equal)
	default:
		return true
	}
}

// String renders n the way it would appear as a TOML value, for display.
func (n *Node) String() string {
	switch n.Kind() {
	case KindString:
		return fmt.Sprintf("%q", n.str)
	case KindInteger:
		return fmt.Sprintf("%d", n.num)
	case KindFloat:
		return fmt.Sprintf("%v", n.float)
	case KindBoolean:
		return fmt.Sprintf("%t", n.flag)
	case KindDatetime:
		return formatDatetime(n.time)
	case KindArray:
		parts := make([]string, len(n.array))
		for i, item := range n.array {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case KindTable:
		keys := n.Keys()
		parts := make([]string, len(keys))

		for i, k := range keys {
			parts[i] = k + " = " + n.table[k].String()
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// Value converts n into plain Go values: string, int64, float64, bool,
// time.Time, []any and map[string]any.
func (n *Node) Value() any {
	switch n.Kind() {
	case KindString:
		return n.str
	case KindInteger:
		return n.num
	case KindFloat:
		return n.float
	case KindBoolean:
		return n.flag
	case KindDatetime:
		return n.time
	case KindArray:
		out := make([]any, len(n.array))
		for i, item := range n.array {
			out[i] = item.Value()
		}

		return out
	case KindTable:
		out := make(map[string]any, len(n.table))
		for k, v := range n.table {
			out[k] = v.Value()
		}

		return out
	default:
		return nil
	}
}

// FromValue converts a plain Go value into a node. It accepts the types
// produced by the TOML and JSON decoders: strings, signed and unsigned
// integers, floats, json.Number, bools, time.Time, slices and string-keyed maps.
func FromValue(v any) (*Node, error) {
	switch val := v.(type) {
	case *Node:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Boolean(val), nil
	case int:
		return Integer(int64(val)), nil
	case int8:
		return Integer(int64(val)), nil
	case int16:
		return Integer(int64(val)), nil
	case int32:
		return Integer(int64(val)), nil
	case int64:
		return Integer(val), nil
	case uint8:
		return Integer(int64(val)), nil
	case uint16:
		return Integer(int64(val)), nil
	case uint32:
		return Integer(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}

		return Integer(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Integer(i), nil
		}

		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", val.String(), err)
		}

		return Float(f), nil
	case time.Time:
		return Datetime(val), nil
	case []any:
		return arrayFrom(val)
	case []map[string]any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = item
		}

		return arrayFrom(items)
	case []string:
		return StringArray(val), nil
	case map[string]any:
		tbl := NewTable()

		for k, item := range val {
			child, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}

			tbl.table[k] = child
		}

		return tbl, nil
	case nil:
		return nil, fmt.Errorf("null values are not supported")
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func arrayFrom(items []any) (*Node, error) {
	arr := make([]*Node, len(items))

	for i, item := range items {
		child, err := FromValue(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}

		arr[i] = child
	}

	return &Node{kind: KindArray, array: arr}, nil
}
