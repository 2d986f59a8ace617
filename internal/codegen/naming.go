package codegen

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// emptyVariant names enum variants whose label has no usable characters.
const emptyVariant = "Empty"

// reservedTypeNames cannot name a generated enum: Self is a Rust keyword and
// the others are types the Rust output refers to.
var reservedTypeNames = map[string]bool{"Self": true, "String": true, "Vec": true, "Option": true}

// EnumName derives the enum type name from the column name, not from the
// enum labels.
func EnumName(column string) string {
	name := identifier(Pascal(column), "Enum")
	if reservedTypeNames[name] {
		return name + "Enum"
	}
	return name
}

// VariantName derives an enum variant name from its label.
func VariantName(label string) string {
	name := Pascal(label)
	switch name {
	case "":
		return emptyVariant
	case "Self":
		return "SelfValue"
	}
	return identifier(name, "V")
}

// uniqueName returns name, or name+suffix with a counter from 2 on, whichever
// is not yet taken, and marks it taken.
func uniqueName(name, suffix string, taken map[string]bool) string {
	if taken[name] {
		base := name + suffix
		name = base
		for i := 2; taken[name]; i++ {
			name = base + strconv.Itoa(i)
		}
	}
	taken[name] = true
	return name
}

// Pascal splits s into words at non-alphanumeric characters and case
// changes, title-cases every word and joins them: "Foo Bar" and "fooBar"
// both become "FooBar", "HTTPServer" becomes "HttpServer".
func Pascal(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func words(s string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	rs := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
		prev = r
	}
	flush()
	return out
}

// GoFieldName returns an exported Go identifier for a column.
func GoFieldName(column string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, column)
	name := inflect.Camelize(sanitized)
	if name == "" {
		return "Field"
	}
	return identifier(name, "F")
}

// identifier prefixes names that start with a digit.
func identifier(name, prefix string) string {
	if name == "" {
		return prefix
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return prefix + name
	}
	return name
}
