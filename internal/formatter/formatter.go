// Package formatter describes an assembled table in human-readable form.
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tordrt/ch2struct/internal/codegen"
	"github.com/tordrt/ch2struct/internal/schema"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter writes a table description.
type Formatter interface {
	Format(table *schema.Table) error
}

// New returns the formatter for format.
func New(w io.Writer, format string) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}
}

type columnEnum struct {
	column string
	name   string
	typ    schema.SqlType
}

// tableEnums lists the enum each column declares, in column order.
func tableEnums(table *schema.Table) []columnEnum {
	var enums []columnEnum
	for _, col := range table.Columns {
		if en, ok := codegen.FindEnum(col.Type); ok {
			enums = append(enums, columnEnum{column: col.Name, name: codegen.EnumName(col.Name), typ: en})
		}
	}
	return enums
}

func variantList(t schema.SqlType, sep string) string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = strconv.Quote(v.Label) + " = " + strconv.Itoa(int(v.Value))
	}
	return strings.Join(parts, sep)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
