package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/ch2struct/internal/schema"
)

const postgresColumnsQuery = `
	SELECT database, table, name, type, comment
	FROM system.columns
	WHERE database = $1 AND table = $2
		AND default_kind NOT IN ('MATERIALIZED', 'ALIAS')
	ORDER BY position
`

// PostgresClient reads system.columns over the ClickHouse PostgreSQL
// interface
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL-interface client
func NewPostgresClient(ctx context.Context, connString, user, password string) (*PostgresClient, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL URL: %w", err)
	}
	// The ClickHouse PostgreSQL interface only speaks the simple protocol.
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	if user != "" {
		cfg.User = user
	}
	if password != "" {
		cfg.Password = password
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// FetchColumns returns the system.columns rows of database.table.
func (c *PostgresClient) FetchColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	rows, err := c.conn.Query(ctx, postgresColumnsQuery, database, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

// Close closes the database connection
func (c *PostgresClient) Close() error {
	return c.conn.Close(context.Background())
}
