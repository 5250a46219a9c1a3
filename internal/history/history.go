package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Entry is one persisted per-kind result of a scan cycle.
type Entry struct {
	ID        int64
	Kind      models.ArtifactKind
	Total     int
	Used      int
	Unused    int
	CreatedAt time.Time
}

// Store persists scan results in a local SQLite database so trends
// survive restarts of the monitor loop.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS scan_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT    NOT NULL,
	total      INTEGER NOT NULL,
	used       INTEGER NOT NULL,
	unused     INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scan_history_created ON scan_history(created_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// Record stores the per-kind counts of one report in a single
// transaction, so a scan either appears completely or not at all.
func (s *Store) Record(ctx context.Context, report *models.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_history (kind, total, used, unused, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC()
	if report.Metadata.GeneratedAt != (time.Time{}) {
		createdAt = report.Metadata.GeneratedAt.UTC()
	}

	for _, kind := range models.Kinds() {
		usage := report.ByKind(kind)
		if _, err := stmt.ExecContext(ctx, string(kind), usage.Total, usage.Used,
			len(usage.UnusedItems)+usage.Acknowledged, createdAt); err != nil {
			return fmt.Errorf("insert history row for %s: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent scan first. A
// non-positive limit uses the default; the limit is capped.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, total, used, unused, created_at
		 FROM scan_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var kind string
		if err := rows.Scan(&entry.ID, &kind, &entry.Total, &entry.Used, &entry.Unused, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.Kind = models.ArtifactKind(kind)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the retention period and returns
// the number removed.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result, err := s.db.ExecContext(ctx, `DELETE FROM scan_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return result.RowsAffected()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
