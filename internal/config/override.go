package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// ErrOverride matches every [*OverrideError].
var ErrOverride = errors.New("config override")

// OverrideReason says why an override pair was rejected.
type OverrideReason uint8

// Override failure reasons.
const (
	ReasonMalformed OverrideReason = iota + 1
	ReasonKeyNotFound
	ReasonTypeMismatch
)

func (r OverrideReason) String() string {
	switch r {
	case ReasonMalformed:
		return "malformed pair"
	case ReasonKeyNotFound:
		return "key not found"
	case ReasonTypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// OverrideError reports the first pair [Config.Override] could not apply.
type OverrideError struct {
	// Pair is the raw "key=value" input.
	Pair   string
	Key    string
	Reason OverrideReason

	// Want is the kind of the existing node for ReasonTypeMismatch.
	Want header.Kind

	Err error
}

func (e *OverrideError) Error() string {
	msg := ErrOverride.Error() + ": " + e.Reason.String()

	if e.Reason == ReasonTypeMismatch {
		msg += ", want " + e.Want.String()
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	if e.Key != "" {
		return msg + " (key=" + e.Key + ")"
	}

	return msg + " (pair=" + strconv.Quote(e.Pair) + ")"
}

// Unwrap returns the underlying cause.
func (e *OverrideError) Unwrap() error { return e.Err }

// Is matches [ErrOverride].
func (e *OverrideError) Is(target error) bool { return target == ErrOverride }

// Override applies "key=value" pairs in order.
//
// Each key must already exist in the document, and the value is parsed into
// the kind of the node found there: string, integer, float, boolean (exactly
// "true" or "false") or datetime. Arrays and tables cannot be overridden.
// Override stops at the first pair that fails and returns an
// [*OverrideError] naming it. Pairs before it stay applied; the failing key
// keeps its value. No pairs is a no-op.
func (c *Config) Override(pairs []string) error {
	for _, pair := range pairs {
		err := c.override(pair)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) override(pair string) error {
	key, raw, ok := strings.Cut(pair, "=")
	if !ok {
		return &OverrideError{Pair: pair, Reason: ReasonMalformed, Err: errors.New("missing '='")}
	}

	key = strings.TrimSpace(key)

	existing, err := header.Read(c.doc, key)
	if err != nil {
		if errors.Is(err, header.ErrInvalidPath) {
			return &OverrideError{Pair: pair, Key: key, Reason: ReasonMalformed, Err: err}
		}

		return &OverrideError{Pair: pair, Key: key, Reason: ReasonKeyNotFound, Err: err}
	}

	if existing == nil {
		return &OverrideError{Pair: pair, Key: key, Reason: ReasonKeyNotFound}
	}

	value, err := coerce(existing.Kind(), raw)
	if err != nil {
		return &OverrideError{Pair: pair, Key: key, Reason: ReasonTypeMismatch, Want: existing.Kind(), Err: err}
	}

	_, err = header.Set(c.doc, key, value)
	if err != nil {
		return &OverrideError{Pair: pair, Key: key, Reason: ReasonKeyNotFound, Err: err}
	}

	return nil
}

// coerce parses raw as a node of kind want.
func coerce(want header.Kind, raw string) (*header.Node, error) {
	switch want {
	case header.KindString:
		return header.String(raw), nil
	case header.KindInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}

		return header.Integer(i), nil
	case header.KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a float", raw)
		}

		return header.Float(f), nil
	case header.KindBoolean:
		switch raw {
		case "true":
			return header.Boolean(true), nil
		case "false":
			return header.Boolean(false), nil
		default:
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
	case header.KindDatetime:
		t, err := header.ParseDatetime(raw)
		if err != nil {
			return nil, err
		}

		return header.Datetime(t), nil
	default:
		return nil, fmt.Errorf("%s values cannot be overridden", want)
	}
}
