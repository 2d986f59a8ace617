package codegen

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/ch2struct/internal/config"
)

func newGoConfig(t *testing.T, table string) *config.Config {
	t.Helper()
	cfg := newTestConfig(t, table)
	cfg.Target = config.TargetGo
	return cfg
}

func TestGoGenerate(t *testing.T) {
	cfg := newGoConfig(t, "events")
	table := testTable(t, "events",
		"id", "UInt64",
		"uid", "UUID",
		"name", "Nullable(String)",
		"kind", "Enum8('' = -128, 'Foo Bar' = 0)",
	)
	table.Columns[0].Comment = "primary key"

	got, err := Generate(table, cfg)
	require.NoError(t, err)

	assert.Contains(t, got, "// Code generated by ch2struct. DO NOT EDIT.\n")
	assert.Contains(t, got, "// Command: ch2struct events -d default -l go\n")
	assert.Contains(t, got, "package model\n")
	assert.Contains(t, got, `"github.com/google/uuid"`)
	assert.Contains(t, got, "// Row is a row of the default.events table.\n")
	assert.Contains(t, got, "// primary key\n")

	assert.Regexp(t, regexp.MustCompile(`Id\s+uint64\s+`+"`"+`ch:"id"`+"`"), got)
	assert.Regexp(t, regexp.MustCompile(`Uid\s+uuid\.UUID\s+`+"`"+`ch:"uid"`+"`"), got)
	assert.Regexp(t, regexp.MustCompile(`Name\s+\*string\s+`+"`"+`ch:"name"`+"`"), got)
	assert.Regexp(t, regexp.MustCompile(`Kind\s+Kind\s+`+"`"+`ch:"kind"`+"`"), got)

	assert.Contains(t, got, "type Kind int8\n")
	assert.Regexp(t, regexp.MustCompile(`KindEmpty\s+Kind = -128`), got)
	assert.Regexp(t, regexp.MustCompile(`KindFooBar\s+Kind = 0`), got)
}

func TestGoGenerateOptions(t *testing.T) {
	cfg := newGoConfig(t, "events")
	cfg.Package = "events"
	cfg.RecordName = "Event"
	cfg.Serialize = true
	table := testTable(t, "events",
		"user_id", "UInt32",
		"level", "Enum16('debug' = 1, 'info' = 1000)",
	)

	got, err := Generate(table, cfg)
	require.NoError(t, err)

	assert.Contains(t, got, "package events\n")
	assert.Contains(t, got, "// Command: ch2struct events -d default -S -l go --record Event --package events\n")
	assert.Contains(t, got, "type Event struct {")
	assert.Regexp(t, regexp.MustCompile(`UserId\s+uint32\s+`+"`"+`ch:"user_id" json:"user_id"`+"`"), got)
	assert.Contains(t, got, "type Level int16\n")
	assert.Regexp(t, regexp.MustCompile(`LevelInfo\s+Level = 1000`), got)
	assert.NotContains(t, got, "github.com/google/uuid")
}

func TestGoGenerateBytesAndQualifiedOverride(t *testing.T) {
	cfg := newGoConfig(t, "t")
	require.NoError(t, cfg.AddBytes("payload"))
	require.NoError(t, cfg.AddTypeOverride("Decimal(18, 4)=github.com/shopspring/decimal.Decimal"))
	require.NoError(t, cfg.AddTypeOverride("DateTime=time.Time"))

	got, err := Generate(testTable(t, "t",
		"payload", "String",
		"amount", "Decimal(18, 4)",
		"at", "DateTime",
	), cfg)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`Payload\s+\[\]byte`), got)
	assert.Regexp(t, regexp.MustCompile(`Amount\s+decimal\.Decimal`), got)
	assert.Contains(t, got, `"github.com/shopspring/decimal"`)
	assert.Regexp(t, regexp.MustCompile(`At\s+time\.Time`), got)
	assert.Contains(t, got, `"time"`)
}

func TestGoGenerateInt128Fails(t *testing.T) {
	cfg := newGoConfig(t, "t")
	got, err := Generate(testTable(t, "t", "big", "Int128"), cfg)
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, ErrNoMapping))
	assert.Contains(t, err.Error(), "no default go mapping for `Int128`")

	require.NoError(t, cfg.AddOverride("big=github.com/ClickHouse/ch-go/proto.Int128"))
	got, err = Generate(testTable(t, "t", "big", "Int128"), cfg)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`Big\s+proto\.Int128`), got)
}

func TestGoGenerateInvalidPackage(t *testing.T) {
	cfg := newGoConfig(t, "t")
	cfg.Package = "not-a-package"
	_, err := Generate(testTable(t, "t", "id", "UInt8"), cfg)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestGoGeneratePointerAndSliceOverrides(t *testing.T) {
	cfg := newGoConfig(t, "t")
	require.NoError(t, cfg.AddOverride("at=*time.Time"))
	require.NoError(t, cfg.AddOverride("raw=encoding/json.RawMessage"))
	require.NoError(t, cfg.AddTypeOverride("Map(String, UInt64)=map[string]uint64"))

	got, err := Generate(testTable(t, "t",
		"at", "Nullable(DateTime)",
		"raw", "String",
		"counts", "Map(String, UInt64)",
	), cfg)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`At\s+\*time\.Time`), got)
	assert.Contains(t, got, `"time"`)
	assert.Regexp(t, regexp.MustCompile(`Raw\s+json\.RawMessage`), got)
	assert.Contains(t, got, `"encoding/json"`)
	assert.Regexp(t, regexp.MustCompile(`Counts\s+map\[string\]uint64`), got)
}

func TestGoGenerateShortImportPathFails(t *testing.T) {
	cfg := newGoConfig(t, "t")
	require.NoError(t, cfg.AddOverride("raw=json.RawMessage"))

	got, err := Generate(testTable(t, "t", "raw", "String"), cfg)
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	assert.Contains(t, err.Error(), `failed to generate the "raw" field`)
}

func TestGoEnumNamedLikeRecord(t *testing.T) {
	cfg := newGoConfig(t, "t")
	got, err := Generate(testTable(t, "t", "row", "Enum8('a' = 1)"), cfg)
	require.NoError(t, err)

	assert.Contains(t, got, "type Row struct {")
	assert.Regexp(t, regexp.MustCompile(`Row\s+RowEnum\s+`+"`"+`ch:"row"`+"`"), got)
	assert.Contains(t, got, "type RowEnum int8\n")
	assert.NotContains(t, got, "type Row int8")
}

func TestGoBytesRequiresText(t *testing.T) {
	cfg := newGoConfig(t, "t")
	require.NoError(t, cfg.AddBytes("n"))
	_, err := Generate(testTable(t, "t", "n", "UInt32"), cfg)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}
