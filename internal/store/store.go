// Package store defines the key/value persistence used by notes, audio volume
// and theme, plus the backends that implement it.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Keys shared by every component that persists state.
const (
	KeyNotes  = "study-concentrator-notes"
	KeyVolume = "audio-volume"
	KeyTheme  = "theme"
)

var (
	// ErrNotFound is returned by Get when the key has never been set or was
	// removed.
	ErrNotFound = errors.New("store: key not found")

	// ErrStorage matches every *Error.
	ErrStorage = errors.New("store: storage failure")
)

// Store is a durable key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Error describes a failed read or write against a backend.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrStorage
}

// Wrap returns nil for a nil err, otherwise an *Error for op and key.
func Wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: err}
}
