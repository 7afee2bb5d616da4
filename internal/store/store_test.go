package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"focuspad/internal/timelog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records backend reads and can be told to fail writes.
type countingStore struct {
	*Memory
	gets    int
	failSet bool
}

func (c *countingStore) Get(ctx context.Context, key string) (string, error) {
	c.gets++
	return c.Memory.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, key, value string) error {
	if c.failSet {
		return Wrap("set", key, errors.New("quota exceeded"))
	}
	return c.Memory.Set(ctx, key, value)
}

func TestMemoryGetSetRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, KeyNotes)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, KeyNotes, "hello"))
	v, err := m.Get(ctx, KeyNotes)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	require.NoError(t, m.Remove(ctx, KeyNotes))
	_, err = m.Get(ctx, KeyNotes)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRecentLogsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, m.CreateLog(ctx, timelog.New("work", 25*time.Minute, base)))
	require.NoError(t, m.CreateLog(ctx, timelog.New("break", 5*time.Minute, base.Add(5*time.Minute))))
	require.NoError(t, m.CreateLog(ctx, timelog.New("work", 25*time.Minute, base.Add(30*time.Minute))))

	logs, err := m.RecentLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, base.Add(30*time.Minute), logs[0].CompletedAt)
	assert.Equal(t, "break", logs[1].Kind)
}

func TestErrorMatchesStorage(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap("set", KeyVolume, cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `store set "audio-volume": disk full`, err.Error())
	assert.NoError(t, Wrap("set", KeyVolume, nil))
}

func TestCachedReadsThrough(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory()}
	require.NoError(t, backend.Memory.Set(ctx, KeyTheme, "light"))

	c, err := NewCached(backend, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := c.Get(ctx, KeyTheme)
		require.NoError(t, err)
		assert.Equal(t, "light", v)
	}
	assert.Equal(t, 1, backend.gets)
}

func TestCachedDropsFailedWrites(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory()}
	c, err := NewCached(backend, 8)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, KeyVolume, "0.5"))
	backend.failSet = true

	err = c.Set(ctx, KeyVolume, "0.9")
	assert.ErrorIs(t, err, ErrStorage)

	v, err := c.Get(ctx, KeyVolume)
	require.NoError(t, err)
	assert.Equal(t, "0.5", v)
}

func TestCachedRemove(t *testing.T) {
	ctx := context.Background()
	c, err := NewCached(NewMemory(), 8)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, KeyNotes, "x"))
	require.NoError(t, c.Remove(ctx, KeyNotes))

	_, err = c.Get(ctx, KeyNotes)
	assert.ErrorIs(t, err, ErrNotFound)
}
