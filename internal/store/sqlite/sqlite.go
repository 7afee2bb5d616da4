package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focuspad/internal/store"
	"focuspad/internal/timelog"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	kvQuery := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)
	`
	if _, err := r.db.Exec(kvQuery); err != nil {
		return err
	}

	sessionLogsQuery := `
	CREATE TABLE IF NOT EXISTS session_logs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		duration INTEGER NOT NULL,
		completed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_session_logs_completed ON session_logs(completed_at DESC);
	`
	_, err := r.db.Exec(sessionLogsQuery)
	return err
}

func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", store.Wrap("get", key, err)
	}
	return value, nil
}

func (r *Repository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return store.Wrap("set", key, err)
}

func (r *Repository) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return store.Wrap("remove", key, err)
}

// timeLayout is fixed width, so text order of completed_at is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (r *Repository) CreateLog(ctx context.Context, log timelog.TimeLog) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO session_logs (id, kind, duration, completed_at) VALUES (?, ?, ?, ?)",
		log.ID,
		log.Kind,
		int64(log.Duration),
		log.CompletedAt.UTC().Format(timeLayout),
	)
	return store.Wrap("create log", "", err)
}

func (r *Repository) RecentLogs(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, kind, duration, completed_at FROM session_logs ORDER BY completed_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, store.Wrap("list logs", "", err)
	}
	defer rows.Close()

	var logs []timelog.TimeLog
	for rows.Next() {
		var l timelog.TimeLog
		var completedAt string
		var duration int64
		if err := rows.Scan(&l.ID, &l.Kind, &duration, &completedAt); err != nil {
			return nil, store.Wrap("list logs", "", err)
		}
		l.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
		l.Duration = time.Duration(duration)
		logs = append(logs, l)
	}
	return logs, store.Wrap("list logs", "", rows.Err())
}

func (r *Repository) Close() error {
	return r.db.Close()
}
