//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

const testTable = "ch2struct_test"

const createTableDDL = `
	CREATE TABLE ch2struct_test (
		u8       UInt8,
		u16      UInt16,
		u32      UInt32,
		u64      UInt64,
		i8       Int8,
		i16      Int16,
		i32      Int32,
		i64      Int64,
		str      String COMMENT 'plain string',
		low_str  LowCardinality(String),
		blob     String,
		fs       FixedString(5),
		f32      Float32,
		f64      Float64,
		d        Date,
		dt       DateTime,
		dt64     DateTime64(9),
		ipv4     IPv4,
		ipv6     IPv6,
		uuid     UUID,
		dec64    Decimal64(9),
		enum8    Enum8('' = -128, 'Foo Bar' = 0),
		enum16   Enum16('' = -128, 'fooBar' = 1024),
		array    Array(LowCardinality(String)),
		tuple    Tuple(String, LowCardinality(String)),
		map      Map(String, UInt64),
		opt_str  Nullable(String),

		default  DEFAULT u16,
		material MATERIALIZED u16,
		alias    ALIAS u16
	)
	ENGINE = MergeTree
	ORDER BY u8
`

// expectedColumns are the columns of a fetched row, in order.
var expectedColumns = []string{
	"u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64",
	"str", "low_str", "blob", "fs", "f32", "f64",
	"d", "dt", "dt64", "ipv4", "ipv6", "uuid", "dec64",
	"enum8", "enum16", "array", "tuple", "map", "opt_str", "default",
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// nativeURL is used to create the test table.
func nativeURL() string {
	return envOr("CLICKHOUSE_TEST_URL", "clickhouse://default@localhost:9000/default")
}

// recreateTable drops and creates the test table.
func recreateTable(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	opts, err := clickhouse.ParseDSN(nativeURL())
	if err != nil {
		t.Fatalf("Failed to parse ClickHouse URL: %v", err)
	}
	conn := clickhouse.OpenDB(opts)
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+testTable); err != nil {
		t.Fatalf("Failed to drop an old table: %v", err)
	}
	if _, err := conn.ExecContext(ctx, createTableDDL); err != nil {
		t.Fatalf("Failed to create a table: %v", err)
	}
}

// testConfig returns the overrides every type of the test table needs.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Table = testTable
	for _, spec := range []string{
		"FixedString(5)=[u8; 5]",
		"Date=u16",
		"DateTime=u32",
		"DateTime64(9)=u64",
		"IPv4=u32",
		"IPv6=[u8; 16]",
		"Decimal(18, 9)=u64",
	} {
		if err := cfg.AddTypeOverride(spec); err != nil {
			t.Fatalf("AddTypeOverride(%q) failed: %v", spec, err)
		}
	}
	if err := cfg.AddBytes("blob"); err != nil {
		t.Fatalf("AddBytes failed: %v", err)
	}
	return cfg
}

// verifyColumns checks the fetched columns and their order
func verifyColumns(t *testing.T, table *schema.Table) {
	t.Helper()

	if len(table.Columns) != len(expectedColumns) {
		t.Fatalf("Expected %d columns, got %d", len(expectedColumns), len(table.Columns))
	}
	for i, name := range expectedColumns {
		if table.Columns[i].Name != name {
			t.Errorf("Expected column %d to be %s, got %s", i, name, table.Columns[i].Name)
		}
	}
}

// verifyType checks the canonical type of a column
func verifyType(t *testing.T, table *schema.Table, column, want string) {
	t.Helper()

	col, ok := table.Column(column)
	if !ok {
		t.Errorf("Column %s not found in table %s", column, table.Name)
		return
	}
	if got := col.Type.String(); got != want {
		t.Errorf("Expected %s to have type %s, got %s", column, want, got)
	}
}
