// Package redis provides the client backing the token revocation list.
// Redis is optional: without it the server falls back to an in-memory
// revocation store, which does not survive restarts.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"riskgate/internal/platform/config"
)

// Client wraps go-redis with health checking for the readiness probe.
type Client struct {
	*redis.Client
}

// New connects a Redis client from the given configuration. Returns nil if
// the URL is empty (Redis not configured). Connectivity is verified up
// front: a revocation list that cannot be reached must fail startup, not
// the first logout.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the revocation list is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
