// Package redis holds the Redis adapters: the connect helper and the
// refresh-token lineage store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

const dialTimeout = 5 * time.Second

type Config struct {
	Addr string
	DB   int
	// Timeout bounds the startup ping. Zero means dialTimeout.
	Timeout time.Duration
}

// Connect builds a Redis client and pings it once, so a wrong address fails
// at startup instead of on the first token rotation.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// translateErr folds context cancellation and timeouts into ErrUnavailable so
// a slow Redis surfaces as a retryable failure, not an internal error.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrUnavailable
	}
	return err
}
