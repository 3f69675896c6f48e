package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/petverse-backend/pkg/clientip"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// RateLimitWindow is the fixed window length
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
)

// RedisRateLimit is a fixed-window per-IP limiter shared by every replica
// through Redis. It fails open when Redis is unavailable.
type RedisRateLimit struct {
	client *redis.Client
	window time.Duration
	max    int64
	logger *zap.Logger
}

func NewRedisRateLimit(client *redis.Client, logger *zap.Logger) *RedisRateLimit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRateLimit{
		client: client,
		window: RateLimitWindow,
		max:    RateLimitMaxRequests,
		logger: logger,
	}
}

func (l *RedisRateLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := RateLimitKeyPrefix + clientip.RealClientIP(r)

		count, err := l.hit(r.Context(), key)
		if err != nil {
			l.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.max, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > l.max {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			writeTooManyRequests(w, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// hit counts one request in the current window. The key is created with its
// TTL in the same transaction, so a window can never outlive l.window.
func (l *RedisRateLimit) hit(ctx context.Context, key string) (int64, error) {
	pipe := l.client.TxPipeline()
	pipe.SetNX(ctx, key, 0, l.window)
	incr := pipe.Incr(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
