package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML configuration file layout. Every field is optional.
//
//	database: default
//	table: events
//	serialize: true
//	types:
//	  FixedString(16): "[u8; 16]"
//	overrides:
//	  - payload=Vec<u8>
//	bytes: [payload]
type File struct {
	Database    string      `yaml:"database"`
	Table       string      `yaml:"table"`
	Serialize   bool        `yaml:"serialize"`
	Deserialize bool        `yaml:"deserialize"`
	Owned       bool        `yaml:"owned"`
	Lang        string      `yaml:"lang"`
	Record      string      `yaml:"record"`
	Package     string      `yaml:"package"`
	Types       Assignments `yaml:"types"`
	Overrides   Assignments `yaml:"overrides"`
	Bytes       []string    `yaml:"bytes"`
}

// Assignments is a list of "KEY=VALUE" strings. In YAML it can be written
// either as a mapping or as a sequence of strings.
type Assignments []string

// UnmarshalYAML implements yaml.Unmarshaler for Assignments.
func (a *Assignments) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, node.Content[i].Value+"="+node.Content[i+1].Value)
		}
		*a = out
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil
	default:
		return fmt.Errorf("line %d: expected a mapping or a list, got %v", node.Line, node.Kind)
	}
}

// LoadFile reads a YAML configuration file and applies it on top of the
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c := New()
	if err := f.Apply(c); err != nil {
		return nil, fmt.Errorf("failed to apply config file %s: %w", path, err)
	}
	return c, nil
}

// ParseFile decodes a YAML configuration. Unknown keys are rejected.
func ParseFile(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// Apply copies every field set in f into c.
func (f *File) Apply(c *Config) error {
	if f.Database != "" {
		c.Database = f.Database
	}
	if f.Table != "" {
		c.Table = f.Table
	}
	c.Serialize = c.Serialize || f.Serialize
	c.Deserialize = c.Deserialize || f.Deserialize
	c.Owned = c.Owned || f.Owned
	if f.Lang != "" {
		c.Target = Target(f.Lang)
	}
	if f.Record != "" {
		c.RecordName = f.Record
	}
	if f.Package != "" {
		c.Package = f.Package
	}
	for _, spec := range f.Types {
		if err := c.AddTypeOverride(spec); err != nil {
			return err
		}
	}
	for _, spec := range f.Overrides {
		if err := c.AddOverride(spec); err != nil {
			return err
		}
	}
	return c.AddBytes(f.Bytes...)
}
