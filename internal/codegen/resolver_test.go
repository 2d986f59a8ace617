package codegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

func mustParse(t *testing.T, raw string) schema.SqlType {
	t.Helper()
	st, err := schema.Parse(raw)
	require.NoError(t, err)
	return st
}

func newTestConfig(t *testing.T, table string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Table = table
	return cfg
}

func TestResolveRustDefaults(t *testing.T) {
	tests := []struct {
		raw      string
		owned    bool
		want     string
		borrowed bool
	}{
		{raw: "UInt8", want: "u8"},
		{raw: "UInt16", want: "u16"},
		{raw: "UInt32", want: "u32"},
		{raw: "UInt64", want: "u64"},
		{raw: "UInt128", want: "u128"},
		{raw: "Int8", want: "i8"},
		{raw: "Int16", want: "i16"},
		{raw: "Int32", want: "i32"},
		{raw: "Int64", want: "i64"},
		{raw: "Int128", want: "i128"},
		{raw: "Bool", want: "bool"},
		{raw: "Float32", want: "f32"},
		{raw: "Float64", want: "f64"},
		{raw: "UUID", want: "uuid::Uuid"},
		{raw: "String", want: "&'a str", borrowed: true},
		{raw: "String", owned: true, want: "String"},
		{raw: "LowCardinality(String)", owned: true, want: "String"},
		{raw: "Nullable(Array(UInt8))", want: "Option<Vec<u8>>"},
		{raw: "Array(Nullable(String))", want: "Vec<Option<&'a str>>", borrowed: true},
		{raw: "Tuple(UInt8)", want: "(u8,)"},
		{raw: "Tuple(UInt8, String)", owned: true, want: "(u8, String)"},
		{raw: "Map(String, UInt32)", want: "Vec<(&'a str, u32)>", borrowed: true},
		{raw: "Enum8('a' = 1)", want: "Status"},
		{raw: "Array(Enum16('a' = 1))", want: "Vec<Status>"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cfg := newTestConfig(t, "t")
			cfg.Owned = tt.owned
			r := NewResolver(cfg, rustTarget{})

			got, err := r.Resolve("status", mustParse(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.borrowed, got.Borrowed)
		})
	}
}

func TestResolveMapMatchesTupleArray(t *testing.T) {
	for _, owned := range []bool{false, true} {
		cfg := newTestConfig(t, "t")
		cfg.Owned = owned
		r := NewResolver(cfg, rustTarget{})

		m, err := r.Resolve("m", mustParse(t, "Map(String, Array(UInt64))"))
		require.NoError(t, err)
		a, err := r.Resolve("m", mustParse(t, "Array(Tuple(String, Array(UInt64)))"))
		require.NoError(t, err)
		assert.Equal(t, a, m)
	}
}

func TestResolveBytes(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddBytes("raw"))
	r := NewResolver(cfg, rustTarget{})

	got, err := r.Resolve("raw", mustParse(t, "String"))
	require.NoError(t, err)
	assert.Equal(t, "&'a [u8]", got.Text)
	assert.True(t, got.Borrowed)

	cfg.Owned = true
	got, err = r.Resolve("raw", mustParse(t, "Nullable(String)"))
	require.NoError(t, err)
	assert.Equal(t, "Option<Vec<u8>>", got.Text)

	got, err = r.Resolve("other", mustParse(t, "String"))
	require.NoError(t, err)
	assert.Equal(t, "String", got.Text)
}

func TestResolveNoDefault(t *testing.T) {
	for _, raw := range []string{
		"FixedString(5)",
		"Date",
		"Date32",
		"DateTime",
		"DateTime64(3, 'UTC')",
		"IPv4",
		"IPv6",
		"Decimal(18, 4)",
		"Array(Nullable(Date))",
	} {
		t.Run(raw, func(t *testing.T) {
			r := NewResolver(newTestConfig(t, "t"), rustTarget{})
			_, err := r.Resolve("col", mustParse(t, raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoMapping))

			var re *ResolveError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "col", re.Column)
			assert.Equal(t, "rust", re.Target)
		})
	}
}

func TestResolveErrorMessage(t *testing.T) {
	r := NewResolver(newTestConfig(t, "t"), rustTarget{})
	_, err := r.Resolve("code", mustParse(t, "FixedString(5)"))
	require.Error(t, err)
	assert.Equal(t,
		"no default rust mapping for `FixedString(5)`; supply a type override (-T 'FixedString(5)=...') or a column override (-O 'code=...')",
		err.Error())
}

func TestResolveTypeOverride(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddTypeOverride("FixedString(5)=[u8; 5]"))
	require.NoError(t, cfg.AddTypeOverride("Date=u16"))
	r := NewResolver(cfg, rustTarget{})

	got, err := r.Resolve("code", mustParse(t, "FixedString(5)"))
	require.NoError(t, err)
	assert.Equal(t, "[u8; 5]", got.Text)

	got, err = r.Resolve("days", mustParse(t, "Array(Nullable(Date))"))
	require.NoError(t, err)
	assert.Equal(t, "Vec<Option<u16>>", got.Text)

	// Only structurally equal types match.
	_, err = r.Resolve("code", mustParse(t, "FixedString(6)"))
	assert.True(t, errors.Is(err, ErrNoMapping))
}

func TestResolveTypeOverrideWholeComposite(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddTypeOverride("Map(String, String)=std::collections::HashMap<String, String>"))
	r := NewResolver(cfg, rustTarget{})

	got, err := r.Resolve("labels", mustParse(t, "Map(LowCardinality(String), String)"))
	require.NoError(t, err)
	assert.Equal(t, "std::collections::HashMap<String, String>", got.Text)
	assert.False(t, got.Borrowed)
}

func TestResolvePrecedence(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddTypeOverride("UInt32=MyU32"))
	require.NoError(t, cfg.AddOverride("id=ColumnId"))
	r := NewResolver(cfg, rustTarget{})

	got, err := r.Resolve("id", mustParse(t, "UInt32"))
	require.NoError(t, err)
	assert.Equal(t, "ColumnId", got.Text, "column override wins over type override")

	got, err = r.Resolve("count", mustParse(t, "UInt32"))
	require.NoError(t, err)
	assert.Equal(t, "MyU32", got.Text, "type override wins over default")

	got, err = r.Resolve("count", mustParse(t, "UInt64"))
	require.NoError(t, err)
	assert.Equal(t, "u64", got.Text)
}

func TestResolveColumnOverrideHidesUnmappable(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddOverride("ip=std::net::Ipv4Addr"))
	r := NewResolver(cfg, rustTarget{})

	got, err := r.Resolve("ip", mustParse(t, "IPv4"))
	require.NoError(t, err)
	assert.Equal(t, "std::net::Ipv4Addr", got.Text)
}

func TestResolveLiteralLifetime(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddOverride("name=std::borrow::Cow<'a, str>"))
	r := NewResolver(cfg, rustTarget{})

	got, err := r.Resolve("name", mustParse(t, "String"))
	require.NoError(t, err)
	assert.True(t, got.Borrowed)
}

func TestResolverOverridden(t *testing.T) {
	cfg := newTestConfig(t, "t")
	require.NoError(t, cfg.AddTypeOverride("UUID=[u8; 16]"))
	require.NoError(t, cfg.AddOverride("other=u128"))
	r := NewResolver(cfg, rustTarget{})

	assert.True(t, r.Overridden(schema.Column{Name: "id", Type: mustParse(t, "UUID")}))
	assert.True(t, r.Overridden(schema.Column{Name: "id", Type: mustParse(t, "Nullable(UUID)")}))
	assert.True(t, r.Overridden(schema.Column{Name: "other", Type: mustParse(t, "String")}))
	assert.False(t, r.Overridden(schema.Column{Name: "id", Type: mustParse(t, "Array(UUID)")}))
	assert.False(t, r.Overridden(schema.Column{Name: "n", Type: mustParse(t, "UInt8")}))
}

func TestResolveGoDefaults(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"UInt8", "uint8"},
		{"UInt16", "uint16"},
		{"UInt32", "uint32"},
		{"UInt64", "uint64"},
		{"Int8", "int8"},
		{"Int16", "int16"},
		{"Int32", "int32"},
		{"Int64", "int64"},
		{"Bool", "bool"},
		{"Float32", "float32"},
		{"Float64", "float64"},
		{"String", "string"},
		{"UUID", "uuid.UUID"},
		{"Nullable(Array(UInt8))", "*[]uint8"},
		{"Tuple(UInt8, String)", "struct{ F0 uint8; F1 string }"},
		{"Map(String, UInt32)", "[]struct{ F0 string; F1 uint32 }"},
		{"Enum8('a' = 1)", "Status"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := NewResolver(newTestConfig(t, "t"), goTarget{})
			got, err := r.Resolve("status", mustParse(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
			assert.False(t, got.Borrowed)
			assert.NotNil(t, got.Code)
		})
	}
}

func TestResolveGoNoInt128(t *testing.T) {
	r := NewResolver(newTestConfig(t, "t"), goTarget{})
	for _, raw := range []string{"Int128", "UInt128"} {
		_, err := r.Resolve("big", mustParse(t, raw))
		assert.True(t, errors.Is(err, ErrNoMapping), raw)
	}
}

func TestGoLiteral(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"github.com/shopspring/decimal.Decimal", "decimal.Decimal"},
		{"time.Time", "time.Time"},
		{"*time.Time", "*time.Time"},
		{"[]*encoding/json.RawMessage", "[]*json.RawMessage"},
		{"[16]byte", "[16]byte"},
		{"map[string]uint64", "map[string]uint64"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			b, err := goTarget{}.Literal(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Text)
			assert.NotNil(t, b.Code)
		})
	}
}

func TestGoLiteralShortPath(t *testing.T) {
	_, err := goTarget{}.Literal("json.RawMessage")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	assert.Contains(t, err.Error(), `"json" is not a standard library package; use the full import path`)
}
