package codegen

import (
	"fmt"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

type field struct {
	column  schema.Column
	binding Binding
}

type enumDecl struct {
	name     string
	typ      schema.SqlType
	variants []string // names in declaration order
}

// plan holds the resolved fields in column order and the discovered enums.
type plan struct {
	fields []field
	enums  []enumDecl
}

func newPlan(table *schema.Table, r *Resolver) (*plan, error) {
	enums, names := planEnums(table, r.cfg.RecordName)
	named := *r
	named.enumNames = names

	p := &plan{fields: make([]field, 0, len(table.Columns)), enums: enums}
	for _, col := range table.Columns {
		if r.cfg.IsBytes(col.Name) && !hasText(col.Type) {
			err := config.NewConfigError("bytes column", col.Name, "type "+col.Type.String()+" has no String or FixedString")
			return nil, fmt.Errorf("failed to generate a record for the %s table: %w", table.QualifiedName(), err)
		}

		b, err := named.Resolve(col.Name, col.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to generate a record for the %s table: failed to generate the %q field: %w",
				table.QualifiedName(), col.Name, err)
		}
		p.fields = append(p.fields, field{column: col, binding: b})
	}
	return p, nil
}

// planEnums names the enum of every column that declares one. Type names
// never repeat or equal the record name, and variant names never repeat
// within an enum.
func planEnums(table *schema.Table, record string) ([]enumDecl, map[string]string) {
	var enums []enumDecl
	names := make(map[string]string)
	taken := map[string]bool{record: true}
	for _, col := range table.Columns {
		en, ok := FindEnum(col.Type)
		if !ok {
			continue
		}
		name := uniqueName(EnumName(col.Name), "Enum", taken)
		names[col.Name] = name

		seen := make(map[string]bool, len(en.Variants))
		variants := make([]string, len(en.Variants))
		for i, v := range en.Variants {
			variants[i] = uniqueName(VariantName(v.Label), "", seen)
		}
		enums = append(enums, enumDecl{name: name, typ: en, variants: variants})
	}
	return enums, names
}

// hasText reports whether t contains a String or FixedString at any depth.
func hasText(t schema.SqlType) bool {
	if t.Kind == schema.KindString || t.Kind == schema.KindFixedString {
		return true
	}
	for _, e := range t.Elems {
		if hasText(e) {
			return true
		}
	}
	return false
}

// borrowed reports whether any field binding borrows from the row buffer.
func (p *plan) borrowed() bool {
	for _, f := range p.fields {
		if f.binding.Borrowed {
			return true
		}
	}
	return false
}

// commandComment documents the options that produced the output.
func commandComment(cfg *config.Config) string {
	return "Command: " + cfg.CommandLine()
}
