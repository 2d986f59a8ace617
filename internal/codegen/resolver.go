package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

// Binding is a resolved output type.
type Binding struct {
	// Text is the type as written in the target language.
	Text string
	// Borrowed reports that the type refers to data owned by the row
	// buffer, so the record needs a lifetime parameter.
	Borrowed bool
	// Code is the jennifer form of Text. Only the Go target sets it.
	Code jen.Code
}

// Target builds bindings for one output language.
type Target interface {
	Name() string
	// Builtin returns the default binding of a non-composite type, or false
	// if the target has none. bytes selects a byte buffer over text for
	// strings.
	Builtin(t schema.SqlType, owned, bytes bool) (Binding, bool)
	Named(name string) Binding
	Array(elem Binding) Binding
	Tuple(elems []Binding) Binding
	Nullable(elem Binding) Binding
	// Literal wraps an override string. It fails if the string cannot be
	// written as valid source.
	Literal(output string) (Binding, error)
}

// Resolver maps column types to bindings. Precedence is fixed: column
// override, then type override, then the target's built-in default.
type Resolver struct {
	cfg    *config.Config
	target Target
	// enumNames holds the enum type name chosen per column when it differs
	// from EnumName.
	enumNames map[string]string
}

// NewResolver creates a resolver for cfg and target.
func NewResolver(cfg *config.Config, target Target) *Resolver {
	return &Resolver{cfg: cfg, target: target}
}

// Resolve returns the binding of t for the named column. The column name and
// configuration apply at every nesting level.
func (r *Resolver) Resolve(column string, t schema.SqlType) (Binding, error) {
	if out, ok := r.cfg.ColumnOverride(column); ok {
		return r.target.Literal(out)
	}
	if out, ok := r.cfg.TypeOverrideFor(t); ok {
		return r.target.Literal(out)
	}

	switch t.Kind {
	case schema.KindEnum8, schema.KindEnum16:
		return r.target.Named(r.enumName(column)), nil

	case schema.KindArray:
		elem, err := r.Resolve(column, t.Elem())
		if err != nil {
			return Binding{}, err
		}
		return r.target.Array(elem), nil

	case schema.KindTuple:
		elems := make([]Binding, 0, len(t.Elems))
		for _, e := range t.Elems {
			b, err := r.Resolve(column, e)
			if err != nil {
				return Binding{}, err
			}
			elems = append(elems, b)
		}
		return r.target.Tuple(elems), nil

	case schema.KindMap:
		return r.Resolve(column, t.TupleArray())

	case schema.KindNullable:
		elem, err := r.Resolve(column, t.Elem())
		if err != nil {
			return Binding{}, err
		}
		return r.target.Nullable(elem), nil
	}

	if b, ok := r.target.Builtin(t, r.cfg.Owned, r.cfg.IsBytes(column)); ok {
		return b, nil
	}
	return Binding{}, &ResolveError{Column: column, Type: t, Target: r.target.Name()}
}

func (r *Resolver) enumName(column string) string {
	if name, ok := r.enumNames[column]; ok {
		return name
	}
	return EnumName(column)
}

// Overridden reports whether any override covers the column's top-level
// type, or the element of a top-level Nullable.
func (r *Resolver) Overridden(col schema.Column) bool {
	if _, ok := r.cfg.ColumnOverride(col.Name); ok {
		return true
	}
	if _, ok := r.cfg.TypeOverrideFor(col.Type); ok {
		return true
	}
	if col.Type.Kind == schema.KindNullable {
		_, ok := r.cfg.TypeOverrideFor(col.Type.Elem())
		return ok
	}
	return false
}

func anyBorrowed(bs []Binding) bool {
	for _, b := range bs {
		if b.Borrowed {
			return true
		}
	}
	return false
}
