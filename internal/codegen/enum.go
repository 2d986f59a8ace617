package codegen

import "github.com/tordrt/ch2struct/internal/schema"

// FindEnum returns the first enum nested in t, searching depth-first through
// Array, Nullable, Map and Tuple elements in order. A column yields at most
// one enum declaration even if it nests several.
func FindEnum(t schema.SqlType) (schema.SqlType, bool) {
	switch t.Kind {
	case schema.KindEnum8, schema.KindEnum16:
		return t, true
	case schema.KindArray, schema.KindNullable:
		return FindEnum(t.Elem())
	case schema.KindMap:
		return FindEnum(t.TupleArray())
	case schema.KindTuple:
		for _, e := range t.Elems {
			if found, ok := FindEnum(e); ok {
				return found, true
			}
		}
	}
	return schema.SqlType{}, false
}
