package header

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Marshal encodes a header document as TOML. Keys are written in sorted
// order, so equal documents encode to identical bytes.
//
// Keys and strings must be valid UTF-8; TOML cannot represent anything else
// and the result would not decode again.
func Marshal(h *Node) ([]byte, error) {
	if h.Kind() != KindTable {
		return nil, &Error{Kind: KindEncode, Err: fmt.Errorf("root must be a table, got %s", h.Kind())}
	}

	err := checkUTF8(h, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""

	err = enc.Encode(h.Value())
	if err != nil {
		return nil, &Error{Kind: KindEncode, Err: err}
	}

	return buf.Bytes(), nil
}

// checkUTF8 rejects the first key or string below n that is not valid
// UTF-8. path is the dotted path of n.
func checkUTF8(n *Node, path string) error {
	switch n.Kind() {
	case KindString:
		if !utf8.ValidString(n.str) {
			return &Error{Kind: KindEncode, Path: path, Err: errors.New("string is not valid UTF-8")}
		}
	case KindArray:
		for i, item := range n.array {
			err := checkUTF8(item, childPath(path, segment{index: i, isIndex: true}.String()))
			if err != nil {
				return err
			}
		}
	case KindTable:
		for _, key := range slices.Sorted(maps.Keys(n.table)) {
			if !utf8.ValidString(key) {
				return &Error{Kind: KindEncode, Path: path, Segment: fmt.Sprintf("%q", key), Err: errors.New("key is not valid UTF-8")}
			}

			err := checkUTF8(n.table[key], childPath(path, key))
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func childPath(path, seg string) string {
	if path == "" {
		return seg
	}

	return path + "." + seg
}

// Unmarshal decodes a TOML document into a header tree.
func Unmarshal(data []byte) (*Node, error) {
	var raw map[string]any

	err := toml.Unmarshal(data, &raw)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}

	if raw == nil {
		return NewTable(), nil
	}

	root, err := FromValue(raw)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}

	return root, nil
}

// ParseDatetime parses s as a TOML datetime literal: offset datetime, local
// datetime, local date or local time.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "\r\n#=\"'") {
		return time.Time{}, &Error{Kind: KindDecode, Err: fmt.Errorf("%q is not a datetime", s)}
	}

	var doc struct {
		V any `toml:"v"`
	}

	_, err := toml.Decode("v = "+s, &doc)
	if err != nil {
		return time.Time{}, &Error{Kind: KindDecode, Err: fmt.Errorf("%q is not a datetime", s)}
	}

	t, ok := doc.V.(time.Time)
	if !ok {
		return time.Time{}, &Error{Kind: KindDecode, Err: fmt.Errorf("%q is not a datetime", s)}
	}

	return t, nil
}

// LocalDatetime returns t as a TOML local datetime (no offset), truncated to
// seconds.
func LocalDatetime(t time.Time) time.Time {
	local, err := ParseDatetime(t.Format("2006-01-02T15:04:05"))
	if err != nil {
		panic("header: local datetime literal rejected: " + err.Error())
	}

	return local
}

// Zone names the TOML decoder gives local date/time values.
const (
	zoneLocalDatetime = "datetime-local"
	zoneLocalDate     = "date-local"
	zoneLocalTime     = "time-local"
)

// IsLocal reports whether t was decoded from a TOML literal without offset.
func IsLocal(t time.Time) bool {
	switch t.Location().String() {
	case zoneLocalDatetime, zoneLocalDate, zoneLocalTime:
		return true
	default:
		return false
	}
}

func formatDatetime(t time.Time) string {
	switch t.Location().String() {
	case zoneLocalDatetime:
		return t.Format("2006-01-02T15:04:05.999999999")
	case zoneLocalDate:
		return t.Format("2006-01-02")
	case zoneLocalTime:
		return t.Format("15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}
