package store

import "strings"

// ErrorKind classifies store errors.
type ErrorKind uint8

// Store error kinds.
const (
	KindNotFound ErrorKind = iota + 1
	KindAlreadyExists
	KindLocked
	KindParse
	KindWrite
	KindAmbiguousHash
	KindInvalidPath
	KindInvalidHash
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "entry not found"
	case KindAlreadyExists:
		return "entry already exists"
	case KindLocked:
		return "entry already checked out"
	case KindParse:
		return "parse entry"
	case KindWrite:
		return "write entry"
	case KindAmbiguousHash:
		return "ambiguous hash"
	case KindInvalidPath:
		return "invalid entry path"
	case KindInvalidHash:
		return "invalid hash prefix"
	case KindIO:
		return "store io"
	default:
		return "store error"
	}
}

// Sentinels for [errors.Is]. Each matches any [*Error] of the same kind.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrLocked        = &Error{Kind: KindLocked}
	ErrParse         = &Error{Kind: KindParse}
	ErrWrite         = &Error{Kind: KindWrite}
	ErrAmbiguousHash = &Error{Kind: KindAmbiguousHash}
	ErrInvalidPath   = &Error{Kind: KindInvalidPath}
	ErrInvalidHash   = &Error{Kind: KindInvalidHash}
	ErrIO            = &Error{Kind: KindIO}
)

// Error is returned by every [Store] operation.
//
// It formats as "<kind>: <cause> (entry_id=X entry_path=Y candidates=[a b])".
// ID is the store-relative id; Path is the on-disk path. The underlying
// cause (for example an *os.PathError) is reachable through [errors.As].
//
//	var serr *store.Error
//	if errors.As(err, &serr) && serr.Kind == store.KindAmbiguousHash {
//		for _, c := range serr.Candidates { ... }
//	}
type Error struct {
	Kind ErrorKind

	// ID is the relative entry id, if known.
	ID string

	// Path is the absolute file path, if known.
	Path string

	// Candidates lists the matching ids of an ambiguous hash lookup, sorted.
	Candidates []string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(e.Kind.String())

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if suffix := e.suffix(); suffix != "" {
		b.WriteString(" ")
		b.WriteString(suffix)
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Is matches another *Error of the same kind, so the package sentinels work
// with [errors.Is].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}

	return t.Kind == e.Kind
}

func (e *Error) suffix() string {
	var parts []string

	if e.ID != "" {
		parts = append(parts, "entry_id="+e.ID)
	}

	if e.Path != "" {
		parts = append(parts, "entry_path="+e.Path)
	}

	if len(e.Candidates) > 0 {
		parts = append(parts, "candidates=["+strings.Join(e.Candidates, " ")+"]")
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, " ") + ")"
}

func newError(kind ErrorKind, id ID, err error) *Error {
	e := &Error{Kind: kind, Err: err}

	if !id.IsZero() {
		e.ID = id.Rel()
		e.Path = id.AbsPath()
	}

	return e
}
