package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error surfaced by a run wraps exactly one of them.
var (
	// ErrList indicates the remote listing failed. The run never produced a stream.
	ErrList = errors.New("list failed")

	// ErrFetch indicates one file's download failed. Later files are abandoned.
	ErrFetch = errors.New("fetch failed")

	// ErrConvert indicates a recognised content type failed to convert.
	ErrConvert = errors.New("convert failed")

	// ErrSink indicates persisting a result failed.
	ErrSink = errors.New("sink write failed")

	// ErrStageClosed indicates a write to a pipeline stage that already terminated.
	ErrStageClosed = errors.New("stage closed")

	// ErrInvalidInput indicates malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuth indicates credentials could not be resolved.
	ErrAuth = errors.New("auth failed")
)

// Field is one piece of context attached to an Error.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Error is a structured error carrying a kind, the failing operation,
// ordered context fields and the underlying cause.
// It is never mutated after construction; callers add context by wrapping.
type Error struct {
	// Kind is one of the package sentinels (ErrFetch, ErrSink, ...).
	Kind error

	// Op names the failing operation.
	Op string

	// Fields are rendered in order, one per line.
	Fields []Field

	// Err is the cause. May be another *Error.
	Err error
}

// Wrap builds an *Error. A nil cause yields an error whose text ends with the kind.
func Wrap(kind error, op string, cause error, fields ...Field) *Error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Fields: fields,
		Err:    cause,
	}
}

// Error renders the multi-line message: the operation first, then one
// "key: value" line per field, with the cause's own text appended last.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "\n  %s: '%v'", f.Key, f.Value)
	}
	if e.Err != nil {
		b.WriteString("\n")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
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

// Field returns the value of the first field named key, searching the
// whole chain of wrapped *Error values from the outside in.
func (e *Error) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	var inner *Error
	if e.Err != nil && errors.As(e.Err, &inner) {
		return inner.Field(key)
	}
	return nil, false
}

// FieldOf looks up a context field anywhere in err's chain.
func FieldOf(err error, key string) (any, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return nil, false
	}
	return e.Field(key)
}
