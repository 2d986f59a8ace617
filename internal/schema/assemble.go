package schema

import (
	"fmt"
	"strings"
)

// RawColumn is one row of system.columns.
type RawColumn struct {
	Database string
	Table    string
	Name     string
	Type     string
	Comment  string
}

// Assemble parses the raw columns of one table, in the given order.
// Rows that belong to another table are rejected.
func Assemble(database, table string, raws []RawColumn) (*Table, error) {
	t := &Table{Database: database, Name: table}
	if len(raws) == 0 {
		return nil, fmt.Errorf("table %s not found or has no columns", t.QualifiedName())
	}

	t.Columns = make([]Column, 0, len(raws))
	for _, raw := range raws {
		if raw.Database != database || raw.Table != table {
			return nil, fmt.Errorf("column %q belongs to %s.%s, not %s", raw.Name, raw.Database, raw.Table, t.QualifiedName())
		}

		typ, err := Parse(raw.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to parse type of column %q in %s: %w", raw.Name, t.QualifiedName(), err)
		}

		t.Columns = append(t.Columns, Column{
			Name:           raw.Name,
			Type:           typ,
			Comment:        raw.Comment,
			LowCardinality: strings.HasPrefix(strings.TrimSpace(raw.Type), lowCardinality+"("),
		})
	}

	return t, nil
}
