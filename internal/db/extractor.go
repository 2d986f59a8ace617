// Package db fetches table column metadata from ClickHouse over one of its
// wire interfaces, or from an offline SQLite catalog.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tordrt/ch2struct/internal/schema"
)

// columnsQuery selects the columns of one table in declaration order. It is
// sent as-is over the native, HTTP and MySQL interfaces. MATERIALIZED and
// ALIAS columns are not part of a row.
const columnsQuery = `
	SELECT database, table, name, type, comment
	FROM system.columns
	WHERE database = ? AND table = ?
		AND default_kind NOT IN ('MATERIALIZED', 'ALIAS')
	ORDER BY position
`

// ColumnSource fetches the raw column rows of a table.
type ColumnSource interface {
	FetchColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error)
	Close() error
}

// Extractor handles table extraction from a ColumnSource
type Extractor struct {
	source ColumnSource
	logger *slog.Logger
}

// NewExtractor creates a new table extractor
func NewExtractor(source ColumnSource, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		source: source,
		logger: logger,
	}
}

// ExtractTable fetches and parses the columns of database.table.
func (e *Extractor) ExtractTable(ctx context.Context, database, table string) (*schema.Table, error) {
	raws, err := e.source.FetchColumns(ctx, database, table)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch columns of %s.%s: %w", database, table, err)
	}
	e.logger.Debug("fetched columns", "database", database, "table", table, "count", len(raws))

	t, err := schema.Assemble(database, table, raws)
	if err != nil {
		return nil, err
	}
	for _, col := range t.Columns {
		e.logger.Debug("parsed column", "column", col.Name, "type", col.Type.String(), "low_cardinality", col.LowCardinality)
	}
	return t, nil
}

// queryColumns runs query with the database and table as arguments and scans
// the rows.
func queryColumns(ctx context.Context, db *sql.DB, query, database, table string) ([]schema.RawColumn, error) {
	rows, err := db.QueryContext(ctx, query, database, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []schema.RawColumn
	for rows.Next() {
		var col schema.RawColumn
		if err := rows.Scan(&col.Database, &col.Table, &col.Name, &col.Type, &col.Comment); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}
