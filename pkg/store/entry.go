package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Version is the store format version stamped into every entry header.
const Version = "0.1.0"

// Reserved header paths.
const (
	SectionStore = "store"
	PathVersion  = "store.version"
	PathModule   = "store.module"
)

// delimiter opens and closes the header block of an entry file.
const delimiter = "---\n"

// Entry is one record: a header document plus free-form content.
//
// An Entry is only reachable through a [Guard]; it is not safe for
// concurrent use.
type Entry struct {
	id      ID
	header  *header.Node
	content string
}

func newEntry(id ID) *Entry {
	h := header.NewTable()
	stamp(h, id.Module())

	return &Entry{id: id, header: h}
}

// ID returns the entry id.
func (e *Entry) ID() ID { return e.id }

// Header returns the live header document. Changes made through the
// [header] accessors are persisted when the guard is released.
func (e *Entry) Header() *header.Node { return e.header }

// SetHeader replaces the header document. Missing [store] fields are stamped
// in; present ones must be strings.
func (e *Entry) SetHeader(h *header.Node) error {
	if h.Kind() != header.KindTable {
		return &header.Error{Kind: header.KindType, Err: fmt.Errorf("header root must be a table, got %s", h.Kind())}
	}

	_, err := header.RequireTable(h, SectionStore)
	if err != nil {
		return err
	}

	stamp(h, e.id.Module())

	err = validateStoreSection(h)
	if err != nil {
		return err
	}

	e.header = h

	return nil
}

// Content returns the entry text.
func (e *Entry) Content() string { return e.content }

// SetContent replaces the entry text.
func (e *Entry) SetContent(content string) { e.content = content }

// Version returns the store format version recorded in the header.
func (e *Entry) Version() string {
	v, _, _ := header.ReadString(e.header, PathVersion)

	return v
}

// Module returns the owning module recorded in the header.
func (e *Entry) Module() string {
	m, _, _ := header.ReadString(e.header, PathModule)

	return m
}

// Marshal renders the entry file: delimiter, TOML header, delimiter, content.
//
// The TOML encoder writes strings on a single line with escaped newlines, so
// the closing delimiter cannot appear inside an encoded header.
func (e *Entry) Marshal() ([]byte, error) {
	err := validateStoreSection(e.header)
	if err != nil {
		return nil, err
	}

	hdr, err := header.Marshal(e.header)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.Grow(2*len(delimiter) + len(hdr) + len(e.content) + 1)
	buf.WriteString(delimiter)
	buf.Write(hdr)

	if len(hdr) > 0 && hdr[len(hdr)-1] != '\n' {
		buf.WriteByte('\n')
	}

	buf.WriteString(delimiter)
	buf.WriteString(e.content)

	return buf.Bytes(), nil
}

var (
	errNoHeaderStart = errors.New("missing opening header delimiter")
	errNoHeaderEnd   = errors.New("missing closing header delimiter")
)

// parseEntry splits data at the header delimiters and decodes the header.
func parseEntry(id ID, data []byte) (*Entry, error) {
	hdr, content, err := splitEntry(data)
	if err != nil {
		return nil, err
	}

	h, err := header.Unmarshal(hdr)
	if err != nil {
		return nil, err
	}

	err = validateStoreSection(h)
	if err != nil {
		return nil, err
	}

	return &Entry{id: id, header: h, content: string(content)}, nil
}

func splitEntry(data []byte) (hdr, content []byte, err error) {
	rest, ok := bytes.CutPrefix(data, []byte(delimiter))
	if !ok {
		return nil, nil, errNoHeaderStart
	}

	if after, ok := bytes.CutPrefix(rest, []byte(delimiter)); ok {
		return nil, after, nil
	}

	end := bytes.Index(rest, []byte("\n"+delimiter))
	if end < 0 {
		return nil, nil, errNoHeaderEnd
	}

	return rest[:end+1], rest[end+1+len(delimiter):], nil
}

func stamp(h *header.Node, module string) {
	if n, _ := header.Read(h, PathVersion); n == nil {
		_ = header.Insert(h, PathVersion, header.String(Version))
	}

	if n, _ := header.Read(h, PathModule); n == nil {
		_ = header.Insert(h, PathModule, header.String(module))
	}
}

func validateStoreSection(h *header.Node) error {
	for _, path := range []string{PathVersion, PathModule} {
		v, found, err := header.ReadString(h, path)
		if err != nil {
			return err
		}

		if !found || v == "" {
			return &header.Error{Kind: header.KindMissing, Path: path, Err: errors.New("reserved field missing")}
		}
	}

	return nil
}
