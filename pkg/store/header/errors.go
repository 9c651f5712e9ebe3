package header

import (
	"strings"
)

// ErrorKind classifies header errors.
type ErrorKind uint8

// Header error kinds.
const (
	// KindInvalidPath: the dotted path itself is malformed.
	KindInvalidPath ErrorKind = iota + 1
	// KindType: a node on the path exists but has the wrong kind.
	KindType
	// KindMissing: [Set] or a required read hit an absent node.
	KindMissing
	// KindEncode: the document could not be serialized.
	KindEncode
	// KindDecode: the input is not a valid header document.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid header path"
	case KindType:
		return "header type mismatch"
	case KindMissing:
		return "header field missing"
	case KindEncode:
		return "encode header"
	case KindDecode:
		return "decode header"
	default:
		return "header error"
	}
}

// Sentinels for [errors.Is]. They match any [*Error] of the same kind.
var (
	ErrInvalidPath = &Error{Kind: KindInvalidPath}
	ErrType        = &Error{Kind: KindType}
	ErrMissing     = &Error{Kind: KindMissing}
	ErrEncode      = &Error{Kind: KindEncode}
	ErrDecode      = &Error{Kind: KindDecode}
)

// Error is returned by every header operation.
//
// It formats as "<kind>: <cause> (path=X segment=Y)":
//
//	header type mismatch: want table, got string (path=note.name.first segment=name)
type Error struct {
	Kind ErrorKind

	// Path is the full dotted path of the operation, if any.
	Path string

	// Segment is the path segment at which the operation failed, if any.
	Segment string

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

	var ctx []string

	if e.Path != "" {
		ctx = append(ctx, "path="+e.Path)
	}

	if e.Segment != "" {
		ctx = append(ctx, "segment="+e.Segment)
	}

	if len(ctx) > 0 {
		b.WriteString(" (" + strings.Join(ctx, " ") + ")")
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

// Is matches another *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}

	return t.Kind == e.Kind
}
