package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// AcquireSubmissionSlot claims the throttle key for one window. It
// returns false when the key is already held, meaning the same visitor
// submitted inside the window. Keys expire on their own and never carry
// order data.
func (c *Client) AcquireSubmissionSlot(key string, ttl time.Duration) (bool, error) {
	ctx := context.Background()
	ok, err := c.rdb.SetNX(ctx, "order_throttle:"+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submission slot: %w", err)
	}
	return ok, nil
}

// ReleaseSubmissionSlot frees a claimed throttle key before its TTL,
// letting a visitor retry after a failed notification.
func (c *Client) ReleaseSubmissionSlot(key string) error {
	ctx := context.Background()
	if err := c.rdb.Del(ctx, "order_throttle:"+key).Err(); err != nil {
		return fmt.Errorf("failed to release submission slot: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
