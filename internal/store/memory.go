package store

import (
	"context"
	"sort"
	"sync"

	"focuspad/internal/timelog"
)

// Memory is an in-process Store. Nothing survives a restart; it is used when
// no durable backend is available.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	logs   []timelog.TimeLog
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) CreateLog(_ context.Context, log timelog.TimeLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *Memory) RecentLogs(_ context.Context, limit int) ([]timelog.TimeLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := append([]timelog.TimeLog(nil), m.logs...)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CompletedAt.After(logs[j].CompletedAt)
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (m *Memory) Close() error {
	return nil
}
