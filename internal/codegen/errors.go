package codegen

import (
	"errors"
	"fmt"

	"github.com/tordrt/ch2struct/internal/schema"
)

// ErrNoMapping is matched by every *ResolveError.
var ErrNoMapping = errors.New("ch2struct: no type mapping")

// ResolveError reports a type that has neither an override nor a built-in
// default in the selected target.
type ResolveError struct {
	Column string
	Type   schema.SqlType
	Target string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("no default %s mapping for `%s`; supply a type override (-T '%s=...') or a column override (-O '%s=...')",
		e.Target, e.Type, e.Type, e.Column)
}

// Is reports whether the target is ErrNoMapping.
func (e *ResolveError) Is(target error) bool {
	return target == ErrNoMapping
}
