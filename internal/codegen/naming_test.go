package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := map[string]string{
		"Foo Bar":       "FooBar",
		"foo_bar":       "FooBar",
		"fooBar":        "FooBar",
		"FooBar":        "FooBar",
		"HTTPServer":    "HttpServer",
		"user-agent":    "UserAgent",
		"  spaced  out": "SpacedOut",
		"":              "",
		"!!!":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Pascal(in), "Pascal(%q)", in)
	}
}

func TestVariantName(t *testing.T) {
	assert.Equal(t, "Empty", VariantName(""))
	assert.Equal(t, "Empty", VariantName("  "))
	assert.Equal(t, "FooBar", VariantName("Foo Bar"))
	assert.Equal(t, "Click", VariantName("click"))
	assert.Equal(t, "V200", VariantName("200"))
	assert.Equal(t, "SelfValue", VariantName("self"))
}

func TestEnumName(t *testing.T) {
	assert.Equal(t, "Status", EnumName("status"))
	assert.Equal(t, "EventKind", EnumName("event_kind"))
	assert.Equal(t, "Enum404", EnumName("404"))
	assert.Equal(t, "Enum", EnumName(""))
	assert.Equal(t, "SelfEnum", EnumName("self"))
	assert.Equal(t, "StringEnum", EnumName("string"))
}

func TestGoFieldName(t *testing.T) {
	assert.Equal(t, "UserId", GoFieldName("user_id"))
	assert.Equal(t, "Name", GoFieldName("name"))
	assert.Equal(t, "EventTime", GoFieldName("event time"))
	assert.Equal(t, "F1st", GoFieldName("1st"))
	assert.Equal(t, "Field", GoFieldName(""))
}

func TestRustFieldName(t *testing.T) {
	tests := []struct {
		column  string
		want    string
		renamed bool
	}{
		{"id", "id", false},
		{"user_id", "user_id", false},
		{"type", "r#type", false},
		{"match", "r#match", false},
		{"self", "self_", true},
		{"crate", "crate_", true},
		{"user id", "user_id", true},
		{"a.b", "a_b", true},
		{"1st", "_1st", true},
		{"", "__", true},
	}
	for _, tt := range tests {
		got, renamed := rustFieldName(tt.column)
		assert.Equal(t, tt.want, got, "rustFieldName(%q)", tt.column)
		assert.Equal(t, tt.renamed, renamed, "rustFieldName(%q) renamed", tt.column)
	}
}
