//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/tordrt/ch2struct"
	"github.com/tordrt/ch2struct/internal/db"
)

// TestSQLiteCatalogMatchesServer copies the live columns into an offline
// catalog and checks both sources generate the same code.
func TestSQLiteCatalogMatchesServer(t *testing.T) {
	recreateTable(t)
	ctx := context.Background()

	live, err := ch2struct.ExtractTable(ctx, nativeURL(), "default", testTable, nil)
	if err != nil {
		t.Fatalf("Failed to extract table: %v", err)
	}

	source, err := db.NewClickHouseClient(ctx, nativeURL(), "", "")
	if err != nil {
		t.Fatalf("Failed to connect to ClickHouse: %v", err)
	}
	raws, err := source.FetchColumns(ctx, "default", testTable)
	_ = source.Close()
	if err != nil {
		t.Fatalf("Failed to fetch columns: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.db")
	catalog, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	if _, err := catalog.Exec(db.CatalogSchema); err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	for i, raw := range raws {
		_, err := catalog.Exec(`INSERT INTO columns VALUES (?, ?, ?, ?, ?, ?)`,
			raw.Database, raw.Table, raw.Name, raw.Type, raw.Comment, i+1)
		if err != nil {
			t.Fatalf("Failed to insert column %s: %v", raw.Name, err)
		}
	}
	_ = catalog.Close()

	offline, err := ch2struct.ExtractTable(ctx, "sqlite://"+path, "default", testTable, nil)
	if err != nil {
		t.Fatalf("Failed to extract table from catalog: %v", err)
	}

	cfg := testConfig(t)
	want, err := ch2struct.FormatTable(live, cfg)
	if err != nil {
		t.Fatalf("Failed to generate from server: %v", err)
	}
	got, err := ch2struct.FormatTable(offline, cfg)
	if err != nil {
		t.Fatalf("Failed to generate from catalog: %v", err)
	}
	if got != want {
		t.Errorf("Catalog output differs from server output\n--- server\n%s\n--- catalog\n%s", want, got)
	}
}
