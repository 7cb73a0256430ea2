package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-tailor/internal/config"
)

// RedisSlot stores the value under one Redis key with no expiry
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot creates a Redis-backed slot from configuration
func NewRedisSlot(cfg *config.Config) *RedisSlot {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return NewRedisSlotWithClient(redis.NewClient(opts), cfg.History.Key)
}

// NewRedisSlotWithClient wraps an existing client
func NewRedisSlotWithClient(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return data, nil
}

func (s *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *RedisSlot) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// Ping tests the Redis connection
func (s *RedisSlot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSlot) Name() string { return "redis:" + s.key }

// Close closes the Redis connection
func (s *RedisSlot) Close() error {
	return s.client.Close()
}
