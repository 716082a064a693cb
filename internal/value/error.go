package value

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ShellError.
type ErrorKind string

const (
	UnsupportedInput ErrorKind = "UnsupportedInput"
	DateParse        ErrorKind = "DateParse"
	CantConvert      ErrorKind = "CantConvert"
)

// ShellError is the diagnostic carried by an Error value. It also satisfies
// error so collaborators can return it and callers can forward it as data
// without rewrapping.
type ShellError struct {
	Kind ErrorKind
	Msg  string
	Span Span
}

func (e *ShellError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewError builds an Error value.
func NewError(kind ErrorKind, msg string, span Span) Value {
	return Error{Err: &ShellError{Kind: kind, Msg: msg, Span: span}}
}

// FromError turns err into an Error value. A *ShellError anywhere in the
// chain is forwarded as is; anything else becomes CantConvert at span.
func FromError(err error, span Span) Value {
	var se *ShellError
	if errors.As(err, &se) {
		return Error{Err: se}
	}
	return NewError(CantConvert, err.Error(), span)
}

// IsError reports whether v is an Error value.
func IsError(v Value) bool {
	_, ok := v.(Error)
	return ok
}
