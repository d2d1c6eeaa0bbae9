package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisKey is the key the pending URL is stored under.
const DefaultRedisKey = "recipescan:pending:url"

// RedisConfig configures a Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string

	// TTL expires an unclaimed URL. Zero keeps it until cleared.
	TTL time.Duration
}

// redisClient is the part of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Redis is a Store backed by a single Redis key.
type Redis struct {
	client redisClient
	key    string
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, cfg.Key, cfg.TTL), nil
}

// NewRedisWithClient wraps an existing client. An empty key uses
// DefaultRedisKey.
func NewRedisWithClient(client *redis.Client, key string, ttl time.Duration) *Redis {
	return newRedis(client, key, ttl)
}

func newRedis(client redisClient, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key, ttl: ttl}
}

// Get returns the pending URL.
func (r *Redis) Get(ctx context.Context) (string, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get pending url: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", fmt.Errorf("failed to unmarshal pending url: %w", err)
	}
	if e.URL == "" {
		return "", ErrNotFound
	}
	return e.URL, nil
}

// Set replaces the pending URL.
func (r *Redis) Set(ctx context.Context, raw string) error {
	u, err := Validate(raw)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entry{URL: u, SetAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal pending url: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pending url: %w", err)
	}
	return nil
}

// Clear removes the pending URL.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear pending url: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
