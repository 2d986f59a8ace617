package schema

// Table represents a single ClickHouse table
type Table struct {
	Database string
	Name     string
	// Columns are kept in declaration order; it defines field order in every
	// generated record.
	Columns []Column
}

// Column represents a table column
type Column struct {
	Name    string
	Type    SqlType
	Comment string
	// LowCardinality reports whether the raw type was wrapped in
	// LowCardinality(...). It never affects Type.
	LowCardinality bool
}

// QualifiedName returns "database.table".
func (t *Table) QualifiedName() string {
	if t.Database == "" {
		return t.Name
	}
	return t.Database + "." + t.Name
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
