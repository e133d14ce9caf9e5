// Package ledger persists the processed-message record backing at-most-once
// delivery to the contact store. A unique source_id key plus a conditional
// insert gives the pipeline its atomic check-and-create primitive.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rolodex/internal/config"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.LedgerPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Claim atomically records a message as being processed. When the source id
// was never seen it inserts a processing row and reports created=true. When
// a row already exists the prior entry is returned unchanged with
// created=false, and the caller must not write the record again.
func (s *Store) Claim(ctx context.Context, sourceID, chatID, kind string) (*Entry, bool, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, false, errors.New("claim: source id required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO entries (source_id, chat_id, kind, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(source_id) DO NOTHING`,
		sourceID, chatID, kind, StatusProcessing, timestamp, timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("claim %q: %w", sourceID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("claim %q: rows affected: %w", sourceID, err)
	}

	entry, err := s.GetBySourceID(ctx, sourceID)
	if err != nil {
		return nil, false, err
	}
	return entry, affected > 0, nil
}

// Complete marks a claimed entry as persisted and records the record URL.
func (s *Store) Complete(ctx context.Context, sourceID, recordURL string, review bool) error {
	status := StatusCompleted
	if review {
		status = StatusReview
	}
	return s.setStatus(ctx, sourceID, status, recordURL, "")
}

// Fail marks a claimed entry as failed with the terminal error message.
func (s *Store) Fail(ctx context.Context, sourceID, message string) error {
	return s.setStatus(ctx, sourceID, StatusFailed, "", message)
}

// Release removes a claimed row whose record write failed before the store
// commit, so a later run can retry the message from scratch.
func (s *Store) Release(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE source_id = ? AND status = ?`,
		sourceID, StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("release %q: %w", sourceID, err)
	}
	return nil
}

// ReleaseStale removes processing rows left behind by an interrupted run.
// It returns how many rows were released.
func (s *Store) ReleaseStale(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE status = ?`, StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("release stale: %w", err)
	}
	released, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("release stale: rows affected: %w", err)
	}
	return released, nil
}

func (s *Store) setStatus(ctx context.Context, sourceID string, status Status, recordURL, message string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET status = ?, record_url = ?, error_message = ?, updated_at = ?
         WHERE source_id = ?`,
		status, nullableString(recordURL), nullableString(message), timestamp, sourceID,
	)
	if err != nil {
		return fmt.Errorf("update %q to %s: %w", sourceID, status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %q: rows affected: %w", sourceID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update %q: entry not found", sourceID)
	}
	return nil
}

// GetBySourceID fetches one entry, or nil when the source id was never seen.
func (s *Store) GetBySourceID(ctx context.Context, sourceID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_id, chat_id, kind, status, record_url, error_message, created_at, updated_at
         FROM entries WHERE source_id = ?`, sourceID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", sourceID, err)
	}
	return entry, nil
}

// List returns entries newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	query := `SELECT id, source_id, chat_id, kind, status, record_url, error_message, created_at, updated_at
              FROM entries`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Health aggregates entry counts by status.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(1) FROM entries GROUP BY status`,
	)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("health query: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan health row: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusCompleted:
			summary.Completed = count
		case StatusReview:
			summary.Review = count
		case StatusFailed:
			summary.Failed = count
		case StatusProcessing:
			summary.Processing = count
		}
	}
	if err := rows.Err(); err != nil {
		return HealthSummary{}, fmt.Errorf("iterate health rows: %w", err)
	}
	return summary, nil
}

const offsetCursor = "telegram_offset"

// Offset returns the stored Telegram update cursor, zero when unset.
func (s *Store) Offset(ctx context.Context) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cursor WHERE name = ?`, offsetCursor,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read offset: %w", err)
	}
	return value, nil
}

// SetOffset stores the Telegram update cursor.
func (s *Store) SetOffset(ctx context.Context, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cursor (name, value) VALUES (?, ?)
         ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		offsetCursor, value,
	)
	if err != nil {
		return fmt.Errorf("set offset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var recordURL, errorMessage sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(
		&entry.ID, &entry.SourceID, &entry.ChatID, &entry.Kind, &entry.Status,
		&recordURL, &errorMessage, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	entry.RecordURL = recordURL.String
	entry.ErrorMessage = errorMessage.String
	entry.CreatedAt = parseTimestamp(createdAt)
	entry.UpdatedAt = parseTimestamp(updatedAt)
	return &entry, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
