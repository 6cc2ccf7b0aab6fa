// Package cache implements the cache-aside layer over redis. Values are
// stored as JSON blobs under well-known keys; writers invalidate, readers
// repopulate.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AllUsersKey is the fixed key holding the precomputed full-user-listing
// payload.
const AllUsersKey = "all_users"

// DefaultTTL is applied when SetJSON is called with a zero ttl.
const DefaultTTL = time.Hour

// Config holds the redis connection parameters.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps a redis client with JSON get/set semantics.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to redis and verifies the connection with a ping
// before returning.
func NewClient(cfg *Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetJSON fetches the value at key and unmarshals it into dest. A missing
// key is a cache miss, not an error: it returns (false, nil).
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}

	return true, nil
}

// SetJSON marshals value and stores it under key. A zero ttl falls back to
// DefaultTTL.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}

	return nil
}

// Ping checks connectivity for the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
