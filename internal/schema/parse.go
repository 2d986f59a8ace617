package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// lowCardinality is a storage hint only; it is stripped before dispatch.
const lowCardinality = "LowCardinality"

var simpleKinds = map[string]Kind{
	"UInt8":    KindUInt8,
	"UInt16":   KindUInt16,
	"UInt32":   KindUInt32,
	"UInt64":   KindUInt64,
	"UInt128":  KindUInt128,
	"Int8":     KindInt8,
	"Int16":    KindInt16,
	"Int32":    KindInt32,
	"Int64":    KindInt64,
	"Int128":   KindInt128,
	"Bool":     KindBool,
	"String":   KindString,
	"Float32":  KindFloat32,
	"Float64":  KindFloat64,
	"Date":     KindDate,
	"Date32":   KindDate32,
	"DateTime": KindDateTime,
	"IPv4":     KindIPv4,
	"IPv6":     KindIPv6,
	"UUID":     KindUUID,
}

type wrapper struct {
	kind  Kind
	parse func(args []string) (SqlType, error)
}

// wrappers are tried in order; every name is unique so order only matters
// for speed.
var wrappers []wrapper

func init() {
	wrappers = []wrapper{
		{KindNullable, parseSingle(NewNullable)},
		{KindArray, parseSingle(NewArray)},
		{KindDateTime, parseDateTime},
		{KindDateTime64, parseDateTime64},
		{KindEnum8, parseEnum(KindEnum8, 8)},
		{KindEnum16, parseEnum(KindEnum16, 16)},
		{KindDecimal, parseDecimal},
		{KindFixedString, parseFixedString},
		{KindTuple, parseTuple},
		{KindMap, parseMap},
	}
}

// Parse converts a ClickHouse type description such as
// "Nullable(Array(LowCardinality(String)))" into a SqlType.
func Parse(raw string) (SqlType, error) {
	s := strings.TrimSpace(raw)

	if inner, ok := unwrap(s, lowCardinality); ok {
		t, err := Parse(inner)
		if err != nil {
			return SqlType{}, &ParseError{Raw: raw, Wrapper: lowCardinality, Cause: err}
		}
		return t, nil
	}

	if k, ok := simpleKinds[s]; ok {
		return Of(k), nil
	}

	for _, w := range wrappers {
		inner, ok := unwrap(s, w.kind.String())
		if !ok {
			continue
		}
		args, err := splitArgs(inner)
		if err != nil {
			return SqlType{}, &ParseError{Raw: raw, Wrapper: w.kind.String(), Cause: err}
		}
		t, err := w.parse(args)
		if err != nil {
			return SqlType{}, &ParseError{Raw: raw, Wrapper: w.kind.String(), Cause: err}
		}
		return t, nil
	}

	return SqlType{}, &ParseError{Raw: raw, Message: "unknown type"}
}

// unwrap returns the argument list of "name(...)".
func unwrap(s, name string) (string, bool) {
	if len(s) < len(name)+2 || !strings.HasPrefix(s, name) || s[len(name)] != '(' || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(name)+1 : len(s)-1], true
}

// splitArgs splits an argument list on top-level commas. Commas nested in
// parentheses or inside single-quoted literals do not split.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var (
		args    []string
		depth   int
		quoted  bool
		escaped bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted:
			switch c {
			case '\\':
				escaped = true
			case '\'':
				quoted = false
			}
		case c == '\'':
			quoted = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced `)` at offset %d", i)
			}
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quoted literal")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced `(`")
	}
	return append(args, strings.TrimSpace(s[start:])), nil
}

func expectArgs(args []string, least, most int) error {
	if len(args) < least || len(args) > most {
		if least == most {
			return fmt.Errorf("expected %d argument(s), got %d", least, len(args))
		}
		return fmt.Errorf("expected %d to %d arguments, got %d", least, most, len(args))
	}
	return nil
}

func parseSingle(build func(SqlType) SqlType) func([]string) (SqlType, error) {
	return func(args []string) (SqlType, error) {
		if err := expectArgs(args, 1, 1); err != nil {
			return SqlType{}, err
		}
		inner, err := Parse(args[0])
		if err != nil {
			return SqlType{}, err
		}
		return build(inner), nil
	}
}

func parseDateTime(args []string) (SqlType, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return SqlType{}, err
	}
	tz, err := unquote(args[0])
	if err != nil {
		return SqlType{}, fmt.Errorf("invalid timezone: %w", err)
	}
	return NewDateTime(tz), nil
}

func parseDateTime64(args []string) (SqlType, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return SqlType{}, err
	}
	precision, err := parseUint(args[0], "precision")
	if err != nil {
		return SqlType{}, err
	}
	var tz string
	if len(args) == 2 {
		if tz, err = unquote(args[1]); err != nil {
			return SqlType{}, fmt.Errorf("invalid timezone: %w", err)
		}
	}
	return NewDateTime64(precision, tz), nil
}

func parseDecimal(args []string) (SqlType, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return SqlType{}, err
	}
	precision, err := parseUint(args[0], "precision")
	if err != nil {
		return SqlType{}, err
	}
	scale, err := parseUint(args[1], "scale")
	if err != nil {
		return SqlType{}, err
	}
	return NewDecimal(precision, scale), nil
}

func parseFixedString(args []string) (SqlType, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return SqlType{}, err
	}
	size, err := parseUint(args[0], "size")
	if err != nil {
		return SqlType{}, err
	}
	return NewFixedString(size), nil
}

func parseTuple(args []string) (SqlType, error) {
	if len(args) == 0 {
		return SqlType{}, fmt.Errorf("expected at least 1 argument, got 0")
	}
	elems := make([]SqlType, 0, len(args))
	for _, arg := range args {
		elem, err := Parse(arg)
		if err != nil {
			return SqlType{}, err
		}
		elems = append(elems, elem)
	}
	return NewTuple(elems...), nil
}

func parseMap(args []string) (SqlType, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return SqlType{}, err
	}
	key, err := Parse(args[0])
	if err != nil {
		return SqlType{}, err
	}
	value, err := Parse(args[1])
	if err != nil {
		return SqlType{}, err
	}
	return NewMap(key, value), nil
}

func parseEnum(kind Kind, bits int) func([]string) (SqlType, error) {
	return func(args []string) (SqlType, error) {
		if len(args) == 0 {
			return SqlType{}, fmt.Errorf("expected at least 1 variant, got 0")
		}
		variants := make([]EnumVariant, 0, len(args))
		for _, arg := range args {
			v, err := parseEnumPair(arg, bits)
			if err != nil {
				return SqlType{}, err
			}
			variants = append(variants, v)
		}
		return SqlType{Kind: kind, Variants: variants}, nil
	}
}

// parseEnumPair parses "'label' = value". The label is everything between
// the first and the last quote.
func parseEnumPair(s string, bits int) (EnumVariant, error) {
	first := strings.IndexByte(s, '\'')
	last := strings.LastIndexByte(s, '\'')
	if first != 0 || last <= first {
		return EnumVariant{}, fmt.Errorf("malformed enum pair `%s`: expected 'label' = value", s)
	}

	rest := strings.TrimSpace(s[last+1:])
	if !strings.HasPrefix(rest, "=") {
		return EnumVariant{}, fmt.Errorf("malformed enum pair `%s`: missing `=`", s)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(rest[1:]), 10, 32)
	if err != nil {
		return EnumVariant{}, fmt.Errorf("malformed enum pair `%s`: %w", s, err)
	}
	lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
	if value < lo || value > hi {
		return EnumVariant{}, fmt.Errorf("malformed enum pair `%s`: value out of Int%d range", s, bits)
	}

	return EnumVariant{Label: unescape(s[first+1 : last]), Value: int32(value)}, nil
}

func parseUint(s, what string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid %s `%s`: %w", what, s, err)
	}
	return int(n), nil
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", fmt.Errorf("expected a quoted literal, got `%s`", s)
	}
	return unescape(s[1 : len(s)-1]), nil
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
