package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// schema is the DDL of every shipdesk table, safe to rerun.
var schema = []string{
	// Small client-side state (the persisted session lives under "auth").
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS scan_events (
		id              TEXT PRIMARY KEY,
		checkpoint      TEXT NOT NULL,
		document_number TEXT NOT NULL,
		username        TEXT NOT NULL DEFAULT '',
		ok              INTEGER NOT NULL DEFAULT 0,
		message         TEXT NOT NULL DEFAULT '',
		scanned_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_events_checkpoint ON scan_events(checkpoint, scanned_at)`,

	`CREATE TABLE IF NOT EXISTS import_log (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		filename    TEXT NOT NULL,
		row_count   INTEGER NOT NULL DEFAULT 0,
		size        INTEGER NOT NULL DEFAULT 0,
		ok          INTEGER NOT NULL DEFAULT 0,
		message     TEXT NOT NULL DEFAULT '',
		username    TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_log_created_at ON import_log(created_at)`,
}

// columnAdditions run after schema, once per missing column. SQLite has no
// ADD COLUMN IF NOT EXISTS.
var columnAdditions = []struct {
	table  string
	column string
	ddl    string
}{
	{"import_log", "archive_uri", "ALTER TABLE import_log ADD COLUMN archive_uri TEXT NOT NULL DEFAULT ''"},
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}

	existing := map[string]map[string]bool{}
	for _, add := range columnAdditions {
		cols, ok := existing[add.table]
		if !ok {
			var err error
			if cols, err = tableColumns(ctx, db, add.table); err != nil {
				return err
			}
			existing[add.table] = cols
		}
		if cols[strings.ToLower(add.column)] {
			continue
		}
		if _, err := db.ExecContext(ctx, add.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", add.table, add.column, err)
		}
		cols[strings.ToLower(add.column)] = true
	}
	return nil
}

// tableColumns returns the lower-cased column names of table.
func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}
