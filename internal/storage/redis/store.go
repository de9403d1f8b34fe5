package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/outagetracker/internal/model"
)

// Internal adapter interface to enable testing without a real Redis server.
type redisAPI interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Wrapper to adapt *goredis.Client to redisAPI.
type redisClientWrapper struct{ c *goredis.Client }

func (w redisClientWrapper) Get(ctx context.Context, key string) (string, error) {
	return w.c.Get(ctx, key).Result()
}
func (w redisClientWrapper) Set(ctx context.Context, key, value string) error {
	return w.c.Set(ctx, key, value, 0).Err()
}
func (w redisClientWrapper) Del(ctx context.Context, key string) error {
	return w.c.Del(ctx, key).Err()
}
func (w redisClientWrapper) Ping(ctx context.Context) error {
	return w.c.Ping(ctx).Err()
}
func (w redisClientWrapper) Close() error {
	return w.c.Close()
}

var _ model.KeyValueBackend = (*Store)(nil)

// Options configure the Redis backend.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store keeps client state in Redis under a key prefix.
type Store struct {
	api    redisAPI
	prefix string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewStoreWithAPI(ctx, redisClientWrapper{c: client}, opts.Prefix)
}

// NewStoreWithAPI allows injecting a fake API (used in tests).
func NewStoreWithAPI(ctx context.Context, api redisAPI, prefix string) (*Store, error) {
	if err := api.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Store{api: api, prefix: prefix}, nil
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.api.Get(ctx, s.key(key))
	if errors.Is(err, goredis.Nil) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return v, nil
}

// Set stores value under key without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.api.Set(ctx, s.key(key), value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.api.Del(ctx, s.key(key)); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.api.Close()
}
