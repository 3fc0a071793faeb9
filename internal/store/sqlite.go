package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/shipdesk/pkg/model"

	_ "modernc.org/sqlite"
)

// SessionKey is the kv key holding the persisted session.
const SessionKey = "auth"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Each connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Session persistence ---

// LoadSession returns the persisted session, or nil when none is stored.
func (s *SQLiteStore) LoadSession(ctx context.Context) (*model.Session, error) {
	s.logger.Debug("sql", "op", "select", "table", "kv", "key", SessionKey)

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, SessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(value), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// SaveSession replaces the persisted session.
func (s *SQLiteStore) SaveSession(ctx context.Context, sess *model.Session) error {
	s.logger.Debug("sql", "op", "upsert", "table", "kv", "key", SessionKey)

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SessionKey, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// DeleteSession purges the persisted session. Deleting an absent session is not an error.
func (s *SQLiteStore) DeleteSession(ctx context.Context) error {
	s.logger.Debug("sql", "op", "delete", "table", "kv", "key", SessionKey)

	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, SessionKey)
	return err
}

// --- Scan log ---

func (s *SQLiteStore) RecordScan(ctx context.Context, ev *model.ScanEvent) error {
	s.logger.Debug("sql", "op", "insert", "table", "scan_events", "id", ev.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_events (id, checkpoint, document_number, username, ok, message, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Checkpoint), ev.DocumentNumber, ev.Username,
		boolToInt(ev.OK), ev.Message, ev.ScannedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListScans returns the newest events for checkpoint, newest first. An empty
// checkpoint lists every checkpoint.
func (s *SQLiteStore) ListScans(ctx context.Context, checkpoint model.Checkpoint, limit int) ([]*model.ScanEvent, error) {
	s.logger.Debug("sql", "op", "list", "table", "scan_events", "checkpoint", checkpoint)

	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, checkpoint, document_number, username, ok, message, scanned_at FROM scan_events`
	var args []any
	if checkpoint != "" {
		query += ` WHERE checkpoint = ?`
		args = append(args, string(checkpoint))
	}
	query += ` ORDER BY scanned_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.ScanEvent
	for rows.Next() {
		var ev model.ScanEvent
		var cp, scannedAt string
		var ok int
		if err := rows.Scan(&ev.ID, &cp, &ev.DocumentNumber, &ev.Username, &ok, &ev.Message, &scannedAt); err != nil {
			return nil, err
		}
		ev.Checkpoint = model.Checkpoint(cp)
		ev.OK = ok != 0
		ev.ScannedAt, _ = time.Parse(time.RFC3339Nano, scannedAt)
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// --- Import log ---

func (s *SQLiteStore) RecordImport(ctx context.Context, rec *model.ImportRecord) error {
	s.logger.Debug("sql", "op", "insert", "table", "import_log", "id", rec.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_log (id, kind, filename, row_count, size, archive_uri, ok, message, username, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.Filename, rec.Rows, rec.Size, rec.ArchiveURI,
		boolToInt(rec.OK), rec.Message, rec.Username, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListImports returns a page of the import log, newest first, with the total count.
func (s *SQLiteStore) ListImports(ctx context.Context, opts model.ListOptions) ([]*model.ImportRecord, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "import_log", "page", opts.Page, "per_page", opts.PerPage)
	opts.Clamp()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM import_log`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, filename, row_count, size, archive_uri, ok, message, username, created_at
		 FROM import_log ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.PerPage, (opts.Page-1)*opts.PerPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*model.ImportRecord
	for rows.Next() {
		var rec model.ImportRecord
		var kind, createdAt string
		var ok int
		if err := rows.Scan(&rec.ID, &kind, &rec.Filename, &rec.Rows, &rec.Size, &rec.ArchiveURI,
			&ok, &rec.Message, &rec.Username, &createdAt); err != nil {
			return nil, 0, err
		}
		rec.Kind = model.ImportKind(kind)
		rec.OK = ok != 0
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, &rec)
	}
	return records, total, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
