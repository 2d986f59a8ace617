package schema

import (
	"errors"
	"strings"
)

// ErrGrammar is matched by every *ParseError.
var ErrGrammar = errors.New("ch2struct: invalid type grammar")

// ParseError reports a type description that cannot be represented.
type ParseError struct {
	Raw     string // the offending type description
	Wrapper string // the parametrized wrapper being parsed, if any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("failed to parse `")
	b.WriteString(e.Raw)
	b.WriteString("`")
	if e.Wrapper != "" {
		b.WriteString(" as ")
		b.WriteString(e.Wrapper)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target is ErrGrammar.
func (e *ParseError) Is(target error) bool {
	return target == ErrGrammar
}
