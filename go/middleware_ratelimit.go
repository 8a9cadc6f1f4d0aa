package storefrontserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// slidingWindow trims entries older than the window, then admits the request when
// fewer than ARGV[3] remain. Returns the new count, or -1 when the caller is over the limit.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', now - windowMs)
local count = redis.call('ZCARD', key)
if count < limit then
  redis.call('ZADD', key, now, member)
  redis.call('PEXPIRE', key, windowMs)
  return count + 1
end
return -1
`)

// RateLimitOption customises RedisRateLimit.
type RateLimitOption func(*rateLimiter)

func WithRateLimitLogger(logger *slog.Logger) RateLimitOption {
	return func(r *rateLimiter) { r.logger = logger }
}

func WithRateLimitPrefix(prefix string) RateLimitOption {
	return func(r *rateLimiter) { r.prefix = prefix }
}

type rateLimiter struct {
	rdb    goredis.Scripter
	limit  int
	window time.Duration
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// RedisRateLimit admits at most limit requests per window for each caller, keyed by
// user id when authenticated and by client IP otherwise. Redis failures let the
// request through.
func RedisRateLimit(rdb goredis.Scripter, limit int, window time.Duration, opts ...RateLimitOption) gin.HandlerFunc {
	r := &rateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "rate_limit:checkout",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r.handle
}

func (r *rateLimiter) handle(c *gin.Context) {
	if r.rdb == nil || r.limit <= 0 || r.window <= 0 {
		c.Next()
		return
	}
	key := r.key(c)
	allowed, err := r.allow(c.Request.Context(), key)
	if err != nil {
		r.logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "rate limit check failed, allowing request",
			slog.String("ratelimit.key", key), slog.String("error", err.Error()))
		c.Next()
		return
	}
	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int((r.window+time.Second-1)/time.Second)))
		apierrors.Abort(c, apierrors.ErrTooManyRequests.WithDetail("too many checkout attempts, try again later"))
		return
	}
	c.Next()
}

func (r *rateLimiter) key(c *gin.Context) string {
	if user, ok := CurrentUser(c); ok {
		return fmt.Sprintf("%s:user:%s", r.prefix, user.ID)
	}
	return fmt.Sprintf("%s:ip:%s", r.prefix, c.ClientIP())
}

func (r *rateLimiter) allow(ctx context.Context, key string) (bool, error) {
	now := r.now().UnixMilli()
	res, err := slidingWindow.Run(ctx, r.rdb, []string{key},
		now, r.window.Milliseconds(), r.limit, uuid.NewString()).Int()
	if err != nil {
		return false, err
	}
	return res >= 0, nil
}
