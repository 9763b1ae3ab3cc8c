package pgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of failure reported by graph stores, encoders and pipes.  Use errors.Is
// against these to classify an error and errors.As with *Error to get the
// offending identifier or key.
var (
	ErrDuplicateID             = errors.New("duplicate id")
	ErrInvalidReference        = errors.New("invalid reference")
	ErrDanglingReference       = errors.New("dangling reference")
	ErrReservedKey             = errors.New("reserved property key")
	ErrDuplicateIndexName      = errors.New("duplicate index name")
	ErrUnsupportedPropertyType = errors.New("unsupported property type")
	ErrNoSuchElement           = errors.New("no such element")
	ErrNotFound                = errors.New("not found")
	ErrInvalidID               = errors.New("invalid id")
	ErrAutomaticIndex          = errors.New("operation not allowed on automatic index")
	ErrClosed                  = errors.New("closed")
	ErrMalformed               = errors.New("malformed data")
)

// Error describes a failed operation and the element, index or key that caused it.
type Error struct {
	Op      string // e.g., "AddEdge"
	Kind    error  // one of the Err* values above
	Element string // "vertex", "edge", "index" or empty
	ID      string
	Key     string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Element != "" {
		fmt.Fprintf(&sb, " (%s %q", e.Element, e.ID)
		if e.Key != "" {
			fmt.Fprintf(&sb, ", key %q", e.Key)
		}
		sb.WriteString(")")
	} else if e.Key != "" {
		fmt.Fprintf(&sb, " (key %q)", e.Key)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
