// Package schema holds the ClickHouse type model, the type grammar parser and
// the table structures assembled from system.columns.
package schema

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies a SqlType variant. The declaration order is the primary key
// of the total order over SqlType values.
type Kind uint8

const (
	KindUInt8 Kind = iota
	KindUInt16
	KindUInt32
	KindUInt64
	KindUInt128
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt128
	KindBool
	KindString
	KindFixedString
	KindFloat32
	KindFloat64
	KindDate
	KindDate32
	KindDateTime
	KindDateTime64
	KindIPv4
	KindIPv6
	KindUUID
	KindDecimal
	KindEnum8
	KindEnum16
	KindArray
	KindTuple
	KindMap
	KindNullable
)

var kindNames = [...]string{
	KindUInt8:       "UInt8",
	KindUInt16:      "UInt16",
	KindUInt32:      "UInt32",
	KindUInt64:      "UInt64",
	KindUInt128:     "UInt128",
	KindInt8:        "Int8",
	KindInt16:       "Int16",
	KindInt32:       "Int32",
	KindInt64:       "Int64",
	KindInt128:      "Int128",
	KindBool:        "Bool",
	KindString:      "String",
	KindFixedString: "FixedString",
	KindFloat32:     "Float32",
	KindFloat64:     "Float64",
	KindDate:        "Date",
	KindDate32:      "Date32",
	KindDateTime:    "DateTime",
	KindDateTime64:  "DateTime64",
	KindIPv4:        "IPv4",
	KindIPv6:        "IPv6",
	KindUUID:        "UUID",
	KindDecimal:     "Decimal",
	KindEnum8:       "Enum8",
	KindEnum16:      "Enum16",
	KindArray:       "Array",
	KindTuple:       "Tuple",
	KindMap:         "Map",
	KindNullable:    "Nullable",
}

// String returns the grammar name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// EnumVariant is a single 'label' = value pair of an Enum8/Enum16.
type EnumVariant struct {
	Label string
	Value int32
}

// SqlType is a parsed ClickHouse column type. Only the fields relevant to
// Kind are set; the zero value of every other field is significant for
// equality and ordering.
type SqlType struct {
	Kind      Kind
	Size      int           // FixedString length
	Precision int           // DateTime64 precision, Decimal width
	Scale     int           // Decimal scale
	Timezone  string        // DateTime, DateTime64; empty means none
	Variants  []EnumVariant // Enum8, Enum16, in source order
	Elems     []SqlType     // Array, Nullable: 1; Map: key, value; Tuple: n
}

// Of returns a type that takes no arguments, such as UInt8 or UUID.
func Of(k Kind) SqlType { return SqlType{Kind: k} }

// NewFixedString returns FixedString(size).
func NewFixedString(size int) SqlType { return SqlType{Kind: KindFixedString, Size: size} }

// NewDateTime returns DateTime with an optional timezone.
func NewDateTime(tz string) SqlType { return SqlType{Kind: KindDateTime, Timezone: tz} }

// NewDateTime64 returns DateTime64(precision[, tz]).
func NewDateTime64(precision int, tz string) SqlType {
	return SqlType{Kind: KindDateTime64, Precision: precision, Timezone: tz}
}

// NewDecimal returns Decimal(precision, scale).
func NewDecimal(precision, scale int) SqlType {
	return SqlType{Kind: KindDecimal, Precision: precision, Scale: scale}
}

// NewEnum8 returns Enum8 with the given variants.
func NewEnum8(variants ...EnumVariant) SqlType { return SqlType{Kind: KindEnum8, Variants: variants} }

// NewEnum16 returns Enum16 with the given variants.
func NewEnum16(variants ...EnumVariant) SqlType {
	return SqlType{Kind: KindEnum16, Variants: variants}
}

// NewArray returns Array(elem).
func NewArray(elem SqlType) SqlType { return SqlType{Kind: KindArray, Elems: []SqlType{elem}} }

// NewNullable returns Nullable(elem).
func NewNullable(elem SqlType) SqlType {
	return SqlType{Kind: KindNullable, Elems: []SqlType{elem}}
}

// NewTuple returns Tuple(elems...).
func NewTuple(elems ...SqlType) SqlType { return SqlType{Kind: KindTuple, Elems: elems} }

// NewMap returns Map(key, value).
func NewMap(key, value SqlType) SqlType {
	return SqlType{Kind: KindMap, Elems: []SqlType{key, value}}
}

// IsEnum reports whether t is an Enum8 or Enum16.
func (t SqlType) IsEnum() bool { return t.Kind == KindEnum8 || t.Kind == KindEnum16 }

// Elem returns the wrapped type of an Array or Nullable.
func (t SqlType) Elem() SqlType {
	if len(t.Elems) == 0 {
		return SqlType{}
	}
	return t.Elems[0]
}

// TupleArray rewrites Map(K, V) to its Array(Tuple(K, V)) equivalent. Any
// other type is returned unchanged.
func (t SqlType) TupleArray() SqlType {
	if t.Kind != KindMap || len(t.Elems) != 2 {
		return t
	}
	return NewArray(NewTuple(t.Elems[0], t.Elems[1]))
}

// Equal reports structural equality.
func (t SqlType) Equal(o SqlType) bool { return Compare(t, o) == 0 }

// Compare orders SqlType values by kind, then by their parameters and
// nested types. It returns -1, 0 or +1.
func Compare(a, b SqlType) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Size, b.Size); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Precision, b.Precision); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Scale, b.Scale); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Timezone, b.Timezone); c != 0 {
		return c
	}
	if c := slices.CompareFunc(a.Variants, b.Variants, compareVariant); c != 0 {
		return c
	}
	return slices.CompareFunc(a.Elems, b.Elems, Compare)
}

func compareVariant(a, b EnumVariant) int {
	if c := cmp.Compare(a.Label, b.Label); c != 0 {
		return c
	}
	return cmp.Compare(a.Value, b.Value)
}

// String renders t in the type grammar accepted by Parse.
func (t SqlType) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t SqlType) write(b *strings.Builder) {
	b.WriteString(t.Kind.String())
	switch t.Kind {
	case KindFixedString:
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(t.Size))
		b.WriteByte(')')
	case KindDateTime:
		if t.Timezone != "" {
			b.WriteByte('(')
			writeQuoted(b, t.Timezone)
			b.WriteByte(')')
		}
	case KindDateTime64:
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(t.Precision))
		if t.Timezone != "" {
			b.WriteString(", ")
			writeQuoted(b, t.Timezone)
		}
		b.WriteByte(')')
	case KindDecimal:
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(t.Precision))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(t.Scale))
		b.WriteByte(')')
	case KindEnum8, KindEnum16:
		b.WriteByte('(')
		for i, v := range t.Variants {
			if i > 0 {
				b.WriteString(", ")
			}
			writeQuoted(b, v.Label)
			b.WriteString(" = ")
			b.WriteString(strconv.FormatInt(int64(v.Value), 10))
		}
		b.WriteByte(')')
	case KindArray, KindTuple, KindMap, KindNullable:
		b.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(')')
	}
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
}
