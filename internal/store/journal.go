package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// JournalEntry records the outcome of one mutating action sent to the backend.
type JournalEntry struct {
	ID             string    `json:"id"`
	At             time.Time `json:"at"`
	Action         string    `json:"action"`
	ActivityID     *int64    `json:"activityId,omitempty"`
	Role           string    `json:"role,omitempty"`
	Outcome        string    `json:"outcome"`
	Detail         string    `json:"detail,omitempty"`
	IdempotencyKey string    `json:"idempotencyKey,omitempty"`
}

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Journal is a local, append-only sqlite log of mutations.
type Journal struct {
	db *sql.DB
}

func JournalPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.sqlite"), nil
}

func OpenJournal(ctx context.Context, path string) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI and a CLI invocation write at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS journal (
			entry_id TEXT PRIMARY KEY,
			at_unixms INTEGER NOT NULL,
			action TEXT NOT NULL,
			activity_id INTEGER,
			role TEXT NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL,
			idempotency_key TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_at ON journal(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends e, filling ID and At when empty.
func (j *Journal) Record(ctx context.Context, e JournalEntry) (JournalEntry, error) {
	if j == nil || j.db == nil {
		return e, errors.New("journal: not open")
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Timestamp(e.At), ulid.DefaultEntropy()).String()
	}
	var activityID any
	if e.ActivityID != nil {
		activityID = *e.ActivityID
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal(entry_id, at_unixms, action, activity_id, role, outcome, detail, idempotency_key)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UnixMilli(), e.Action, activityID, e.Role, e.Outcome, e.Detail, e.IdempotencyKey,
	)
	if err != nil {
		return e, err
	}
	return e, nil
}

// List returns the newest entries first. limit <= 0 returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]JournalEntry, error) {
	if j == nil || j.db == nil {
		return nil, errors.New("journal: not open")
	}
	q := `SELECT entry_id, at_unixms, action, activity_id, role, outcome, detail, idempotency_key
		FROM journal ORDER BY at_unixms DESC, entry_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JournalEntry{}
	for rows.Next() {
		var (
			e          JournalEntry
			atMS       int64
			activityID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &atMS, &e.Action, &activityID, &e.Role, &e.Outcome, &e.Detail, &e.IdempotencyKey); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(atMS).UTC()
		if activityID.Valid {
			v := activityID.Int64
			e.ActivityID = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
