// ABOUTME: Append-only activity log recording entity mutations
// ABOUTME: Backs the dashboard recent-activity feed with a SQLite table
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Actions recorded against entities.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entry is one logged mutation.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Log is the activity repository.
type Log struct {
	db *sql.DB
}

// Open opens the activity database at path, creating the schema if needed.
func Open(path string) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Single connection avoids database locked errors
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Log{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL,
			summary TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_activities_occurred_at ON activities(occurred_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize activity schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends an entry for a mutation against an entity.
func (l *Log) Record(ctx context.Context, kind, entityID, action, summary string) error {
	entry := Entry{
		ID:         uuid.New(),
		Kind:       kind,
		EntityID:   entityID,
		Action:     action,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO activities (id, kind, entity_id, action, summary, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID.String(), entry.Kind, entry.EntityID, entry.Action, entry.Summary, entry.OccurredAt)

	return err
}

// Recent returns the latest entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, kind, entity_id, action, summary, occurred_at
		FROM activities
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var id string
		if err := rows.Scan(&id, &entry.Kind, &entry.EntityID, &entry.Action, &entry.Summary, &entry.OccurredAt); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt activity id %q: %w", id, err)
		}
		entry.ID = parsed
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
