package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/ch2struct/internal/schema"
)

// sqliteColumnsQuery reads the catalog table, a copy of the relevant
// system.columns fields.
const sqliteColumnsQuery = `
	SELECT database, "table", name, type, comment
	FROM columns
	WHERE database = ? AND "table" = ?
	ORDER BY position
`

// CatalogSchema creates the catalog table read by SQLiteClient.
const CatalogSchema = `
	CREATE TABLE IF NOT EXISTS columns (
		database TEXT NOT NULL,
		"table"  TEXT NOT NULL,
		name     TEXT NOT NULL,
		type     TEXT NOT NULL,
		comment  TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (database, "table", name)
	)
`

// SQLiteClient reads column metadata from an offline SQLite catalog
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient creates a new SQLite client
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// FetchColumns returns the catalog rows of database.table.
func (c *SQLiteClient) FetchColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	return queryColumns(ctx, c.db, sqliteColumnsQuery, database, table)
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}
