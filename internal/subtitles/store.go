// Package subtitles reads the OpenSubtitles archive store, a SQLite database
// whose rows carry zipped subtitle files, and turns it into a line-oriented
// dialogue source.
package subtitles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultTable is the archive table of the OpenSubtitles dump
const DefaultTable = "zipfiles"

// ErrNoArchiveTable is returned when the requested table is not in the store.
var ErrNoArchiveTable = errors.New("table not found in archive store")

// openStore opens an existing SQLite file. sql.Open would silently create a
// missing database, so existence is checked first.
func openStore(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive store %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func requireTable(ctx context.Context, db *sql.DB, table string) error {
	tables, err := listTables(ctx, db)
	if err != nil {
		return err
	}
	for _, name := range tables {
		if name == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoArchiveTable, table)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
