package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/ch2struct/internal/schema"
)

// TextFormatter describes a table as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the table in compact text format
func (f *TextFormatter) Format(table *schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s\n", table.QualifiedName())

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatColumn(col))
	}

	enums := tableEnums(table)
	if len(enums) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  ENUMS:")
		for _, en := range enums {
			_, _ = fmt.Fprintf(f.writer, "    %s (%s): %s\n", en.name, en.column, variantList(en.typ, " | "))
		}
	}

	return nil
}

func (f *TextFormatter) formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":", col.Type.String()}

	if col.LowCardinality {
		parts = append(parts, "LowCardinality")
	}

	if col.Comment != "" {
		parts = append(parts, "-- "+oneLine(col.Comment))
	}

	return strings.Join(parts, " ")
}
