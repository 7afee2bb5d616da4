package timelog

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// TimeLog records one completed timer session.
type TimeLog struct {
	ID          string
	Kind        string
	Duration    time.Duration
	CompletedAt time.Time
}

// New stamps a TimeLog with a fresh ULID.
func New(kind string, duration time.Duration, completedAt time.Time) TimeLog {
	return TimeLog{
		ID:          ulid.MustNew(ulid.Timestamp(completedAt), ulid.DefaultEntropy()).String(),
		Kind:        kind,
		Duration:    duration,
		CompletedAt: completedAt,
	}
}

// Recorder persists completed sessions.
type Recorder interface {
	CreateLog(ctx context.Context, log TimeLog) error
}

// Lister returns the most recent sessions, newest first.
type Lister interface {
	RecentLogs(ctx context.Context, limit int) ([]TimeLog, error)
}
