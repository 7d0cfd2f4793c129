// Package redis owns the shared connection used by the per-station scan
// dedupe caches. The whole dependency is optional: an empty URL means the
// service runs with in-memory caches only.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"eventops/internal/platform/config"
)

// Client wraps go-redis with the health probe the router's /healthz needs.
type Client struct {
	*redis.Client
}

// New dials redis from configuration. A nil Client with a nil error means
// redis is not configured; callers fall back to in-memory caching.
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

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
