package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/ch2struct/internal/schema"
)

// MySQLClient reads system.columns over the ClickHouse MySQL interface
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL-interface client from a
// go-sql-driver DSN ("user:pass@tcp(host:9004)/db").
func NewMySQLClient(ctx context.Context, dsn, user, password string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	// The ClickHouse MySQL interface has no server-side prepared statements.
	cfg.InterpolateParams = true
	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Passwd = password
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// FetchColumns returns the system.columns rows of database.table.
func (c *MySQLClient) FetchColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	return queryColumns(ctx, c.db, columnsQuery, database, table)
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}
