// Package config holds the generation options: target language, derive
// flags, and the column-level and type-level overrides.
package config

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/tordrt/ch2struct/internal/schema"
)

// Target is the language of the generated declarations.
type Target string

const (
	TargetRust Target = "rust"
	TargetGo   Target = "go"
)

const (
	DefaultDatabase   = "default"
	DefaultRecordName = "Row"
	DefaultPackage    = "model"
)

// Override maps a column name to a literal output type.
type Override struct {
	Column string
	Output string
}

// TypeOverride maps a SqlType to a literal output type.
type TypeOverride struct {
	Type   schema.SqlType
	Output string
}

// Config configures generation for one table.
type Config struct {
	Database    string
	Table       string
	Serialize   bool
	Deserialize bool
	// Owned selects owned strings over borrowed slices. Ignored by targets
	// without lifetimes.
	Owned      bool
	Target     Target
	RecordName string
	Package    string

	overrides     map[string]string
	typeOverrides map[string]TypeOverride // keyed by SqlType.String()
	bytes         map[string]struct{}
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Database:      DefaultDatabase,
		Target:        TargetRust,
		RecordName:    DefaultRecordName,
		Package:       DefaultPackage,
		overrides:     make(map[string]string),
		typeOverrides: make(map[string]TypeOverride),
		bytes:         make(map[string]struct{}),
	}
}

// AddOverride parses "column=output". A later override of the same column
// replaces the earlier one.
func (c *Config) AddOverride(spec string) error {
	column, output, ok := strings.Cut(spec, "=")
	if !ok {
		return NewConfigError("override", spec, "expected COLUMN=TYPE")
	}
	return c.SetOverride(column, output)
}

// SetOverride maps column to output.
func (c *Config) SetOverride(column, output string) error {
	column, output = strings.TrimSpace(column), strings.TrimSpace(output)
	if column == "" || output == "" {
		return NewConfigError("override", column+"="+output, "column and type must not be empty")
	}
	if c.overrides == nil {
		c.overrides = make(map[string]string)
	}
	c.overrides[column] = output
	return nil
}

// AddTypeOverride parses "type=output", where type is in the ClickHouse type
// grammar. The type itself may contain '=' (enum variants), so the split
// happens at the first top-level '='.
func (c *Config) AddTypeOverride(spec string) error {
	raw, output, ok := cutAssignment(spec)
	if !ok {
		return NewConfigError("type override", spec, "expected TYPE=OUTPUT")
	}
	return c.SetTypeOverride(raw, output)
}

// SetTypeOverride maps the parsed raw type to output.
func (c *Config) SetTypeOverride(raw, output string) error {
	raw, output = strings.TrimSpace(raw), strings.TrimSpace(output)
	if raw == "" || output == "" {
		return NewConfigError("type override", raw+"="+output, "type and output must not be empty")
	}
	typ, err := schema.Parse(raw)
	if err != nil {
		return &ConfigError{Option: "type override", Value: raw + "=" + output, Message: "bad type", Cause: err}
	}
	if c.typeOverrides == nil {
		c.typeOverrides = make(map[string]TypeOverride)
	}
	c.typeOverrides[typ.String()] = TypeOverride{Type: typ, Output: output}
	return nil
}

// AddBytes marks columns for byte-buffer serialization.
func (c *Config) AddBytes(columns ...string) error {
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			return NewConfigError("bytes column", column, "must not be empty")
		}
		if c.bytes == nil {
			c.bytes = make(map[string]struct{})
		}
		c.bytes[column] = struct{}{}
	}
	return nil
}

// ColumnOverride returns the override configured for column.
func (c *Config) ColumnOverride(column string) (string, bool) {
	output, ok := c.overrides[column]
	return output, ok
}

// TypeOverrideFor returns the override configured for a structurally equal
// type.
func (c *Config) TypeOverrideFor(t schema.SqlType) (string, bool) {
	o, ok := c.typeOverrides[t.String()]
	return o.Output, ok
}

// IsBytes reports whether column is marked for byte-buffer serialization.
func (c *Config) IsBytes(column string) bool {
	_, ok := c.bytes[column]
	return ok
}

// Overrides returns the column overrides sorted by column name.
func (c *Config) Overrides() []Override {
	out := make([]Override, 0, len(c.overrides))
	for column, output := range c.overrides {
		out = append(out, Override{Column: column, Output: output})
	}
	slices.SortFunc(out, func(a, b Override) int { return cmp.Compare(a.Column, b.Column) })
	return out
}

// TypeOverrides returns the type overrides sorted by the SqlType order.
func (c *Config) TypeOverrides() []TypeOverride {
	out := make([]TypeOverride, 0, len(c.typeOverrides))
	for _, o := range c.typeOverrides {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b TypeOverride) int { return schema.Compare(a.Type, b.Type) })
	return out
}

// Bytes returns the byte-buffer columns sorted lexically.
func (c *Config) Bytes() []string {
	out := make([]string, 0, len(c.bytes))
	for column := range c.bytes {
		out = append(out, column)
	}
	slices.Sort(out)
	return out
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the options that do not depend on the schema.
func (c *Config) Validate() error {
	if c.Table == "" {
		return NewConfigError("table", nil, "table name is required")
	}
	if c.Database == "" {
		return NewConfigError("database", nil, "database name is required")
	}
	switch c.Target {
	case TargetRust, TargetGo:
	default:
		return NewConfigError("lang", string(c.Target), "must be rust or go")
	}
	if !identRe.MatchString(c.RecordName) {
		return NewConfigError("record", c.RecordName, "must be an identifier")
	}
	if c.Target == TargetGo && !identRe.MatchString(c.Package) {
		return NewConfigError("package", c.Package, "must be an identifier")
	}
	return nil
}

// cutAssignment splits at the first '=' outside parentheses and quotes.
func cutAssignment(s string) (before, after string, found bool) {
	depth, quoted, escaped := 0, false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted:
			switch ch {
			case '\\':
				escaped = true
			case '\'':
				quoted = false
			}
		case ch == '\'':
			quoted = true
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == '=' && depth == 0:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
