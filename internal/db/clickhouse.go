package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/tordrt/ch2struct/internal/schema"
)

// ClickHouseClient reads system.columns over the native or HTTP interface
type ClickHouseClient struct {
	db *sql.DB
}

// NewClickHouseClient creates a new ClickHouse client. dsn uses the
// clickhouse://, tcp://, http:// or https:// scheme; a non-empty user or
// password replaces the one in dsn.
func NewClickHouseClient(ctx context.Context, dsn, user, password string) (*ClickHouseClient, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ClickHouse URL: %w", err)
	}
	if user != "" {
		opts.Auth.Username = user
	}
	if password != "" {
		opts.Auth.Password = password
	}

	db := clickhouse.OpenDB(opts)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &ClickHouseClient{db: db}, nil
}

// FetchColumns returns the system.columns rows of database.table.
func (c *ClickHouseClient) FetchColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	return queryColumns(ctx, c.db, columnsQuery, database, table)
}

// Close closes the database connection
func (c *ClickHouseClient) Close() error {
	return c.db.Close()
}
