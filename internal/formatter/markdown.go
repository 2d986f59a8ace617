package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/ch2struct/internal/schema"
)

// MarkdownFormatter describes a table as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the table in markdown format
func (f *MarkdownFormatter) Format(table *schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.QualifiedName())

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	for _, col := range table.Columns {
		notes := f.formatNotes(col)
		if notes != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** `%s`, %s\n", col.Name, col.Type, notes)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** `%s`\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	enums := tableEnums(table)
	if len(enums) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Enums")
		_, _ = fmt.Fprintln(f.writer)
		for _, en := range enums {
			_, _ = fmt.Fprintf(f.writer, "- **%s** (%s): %s\n", en.name, en.column, variantList(en.typ, ", "))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

func (f *MarkdownFormatter) formatNotes(col schema.Column) string {
	var notes []string

	if col.LowCardinality {
		notes = append(notes, "LowCardinality")
	}

	if col.Comment != "" {
		notes = append(notes, oneLine(col.Comment))
	}

	return strings.Join(notes, ", ")
}
