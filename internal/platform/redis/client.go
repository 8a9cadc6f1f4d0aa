package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect dials Redis and verifies connectivity with a PING.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOrFallback returns the client plus a cleanup function. When addr is empty or
// unreachable it logs and returns nil; callers then skip rate limiting and keep
// idempotency keys in their primary store.
func ConnectOrFallback(ctx context.Context, addr string, logger *slog.Logger) (*goredis.Client, func()) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		if logger != nil {
			logger.Warn("REDIS_ADDR not set, checkout rate limiting disabled")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, addr)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, checkout rate limiting disabled", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("redis.addr", addr))
	}
	return client, func() { _ = client.Close() }
}
