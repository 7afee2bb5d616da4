package store

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached is a read-through LRU in front of another Store. Writes go to the
// backend first and only update the cache when they succeed.
type Cached struct {
	Store
	cache *lru.Cache[string, string]
}

// NewCached wraps backend with an LRU holding up to size keys.
func NewCached(backend Store, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Cached{Store: backend, cache: cache}, nil
}

func (c *Cached) Get(ctx context.Context, key string) (string, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.Store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, v)
	return v, nil
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	if err := c.Store.Set(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, value)
	return nil
}

func (c *Cached) Remove(ctx context.Context, key string) error {
	c.cache.Remove(key)
	err := c.Store.Remove(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Unwrap returns the backend.
func (c *Cached) Unwrap() Store {
	return c.Store
}
