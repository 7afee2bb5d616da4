package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"focuspad/internal/store"
	"focuspad/internal/timelog"

	"github.com/redis/go-redis/v9"
)

// maxLogs caps the session history list.
const maxLogs = 500

// Config holds connection settings for the Redis backend.
type Config struct {
	Addr         string
	Password     string
	DB           int
	Prefix       string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store implements store.Store on Redis. Every key is namespaced by Prefix.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and verifies the connection.
func Open(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, prefix: cfg.Prefix}, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", store.Wrap("get", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return store.Wrap("set", key, s.client.Set(ctx, s.key(key), value, 0).Err())
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return store.Wrap("remove", key, s.client.Del(ctx, s.key(key)).Err())
}

type logRecord struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	DurationSec int64     `json:"duration_seconds"`
	CompletedAt time.Time `json:"completed_at"`
}

func (s *Store) CreateLog(ctx context.Context, log timelog.TimeLog) error {
	data, err := json.Marshal(logRecord{
		ID:          log.ID,
		Kind:        log.Kind,
		DurationSec: int64(log.Duration / time.Second),
		CompletedAt: log.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session log: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key("session_logs"), data)
	pipe.LTrim(ctx, s.key("session_logs"), 0, maxLogs-1)
	_, err = pipe.Exec(ctx)
	return store.Wrap("create log", "", err)
}

func (s *Store) RecentLogs(ctx context.Context, limit int) ([]timelog.TimeLog, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	items, err := s.client.LRange(ctx, s.key("session_logs"), 0, stop).Result()
	if err != nil {
		return nil, store.Wrap("list logs", "", err)
	}

	logs := make([]timelog.TimeLog, 0, len(items))
	for _, item := range items {
		var rec logRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		logs = append(logs, timelog.TimeLog{
			ID:          rec.ID,
			Kind:        rec.Kind,
			Duration:    time.Duration(rec.DurationSec) * time.Second,
			CompletedAt: rec.CompletedAt,
		})
	}
	return logs, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
