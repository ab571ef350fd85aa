// Package sqlite provides SQLite-backed persistence for division projects:
// snapshot store, event journal, and telemetry store in one database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/storage"
	"github.com/creditcastor/division/internal/division/storage/sqlite/migrations"
	"github.com/creditcastor/division/internal/platform/storage/sqlitemigrate"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides a SQLite-backed store implementing all storage interfaces.
type Store struct {
	sqlDB *sql.DB
}

// DB returns the underlying sql.DB instance.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Open opens a SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveProject upserts a project snapshot.
func (s *Store) SaveProject(ctx context.Context, record storage.ProjectRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("project id is required")
	}

	stateJSON, err := json.Marshal(record.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	contextJSON, err := json.Marshal(record.Context)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO projects (id, state, context, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    state = excluded.state,
    context = excluded.context,
    updated_at = excluded.updated_at
`, record.ID, string(stateJSON), string(contextJSON), toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("save project %s: %w", record.ID, err)
	}
	return nil
}

// GetProject loads a project snapshot.
func (s *Store) GetProject(ctx context.Context, id string) (storage.ProjectRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, state, context, updated_at FROM projects WHERE id = ?
`, id)

	var record storage.ProjectRecord
	var stateJSON, contextJSON string
	var updatedAt int64
	if err := row.Scan(&record.ID, &stateJSON, &contextJSON, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ProjectRecord{}, storage.ErrNotFound
		}
		return storage.ProjectRecord{}, fmt.Errorf("get project %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(stateJSON), &record.State); err != nil {
		return storage.ProjectRecord{}, fmt.Errorf("unmarshal state for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(contextJSON), &record.Context); err != nil {
		return storage.ProjectRecord{}, fmt.Errorf("unmarshal context for %s: %w", id, err)
	}
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// AppendEvent appends an event to a project's journal and returns its
// sequence number. Sequences start at 1 and are assigned atomically.
func (s *Store) AppendEvent(ctx context.Context, record storage.EventRecord) (uint64, error) {
	if strings.TrimSpace(record.ProjectID) == "" {
		return 0, fmt.Errorf("project id is required")
	}

	timestamp := record.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var seq uint64
	row := tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(seq), 0) + 1 FROM project_events WHERE project_id = ?
`, record.ProjectID)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence for %s: %w", record.ProjectID, err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO project_events (project_id, seq, type, payload, created_at)
VALUES (?, ?, ?, ?, ?)
`, record.ProjectID, seq, string(record.Type), string(record.Payload), toMillis(timestamp))
	if err != nil {
		return 0, fmt.Errorf("append event for %s: %w", record.ProjectID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return seq, nil
}

// ListEvents returns up to limit journal entries for a project with
// sequence numbers greater than afterSeq, in sequence order.
func (s *Store) ListEvents(ctx context.Context, projectID string, afterSeq uint64, limit int) ([]storage.EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT project_id, seq, type, payload, created_at
FROM project_events
WHERE project_id = ? AND seq > ?
ORDER BY seq
LIMIT ?
`, projectID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", projectID, err)
	}
	defer rows.Close()

	var records []storage.EventRecord
	for rows.Next() {
		var record storage.EventRecord
		var eventType, payload string
		var createdAt int64
		if err := rows.Scan(&record.ProjectID, &record.Seq, &eventType, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event for %s: %w", projectID, err)
		}
		record.Type = event.Type(eventType)
		record.Payload = []byte(payload)
		record.Timestamp = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events for %s: %w", projectID, err)
	}
	return records, nil
}

// AppendTelemetryEvent records one operational telemetry entry.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	timestamp := evt.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO telemetry_events (project_id, severity, event_type, message, created_at)
VALUES (?, ?, ?, ?, ?)
`, evt.ProjectID, evt.Severity, evt.EventType, evt.Message, toMillis(timestamp))
	if err != nil {
		return fmt.Errorf("append telemetry: %w", err)
	}
	return nil
}
