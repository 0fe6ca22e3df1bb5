package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// window is the outcome of counting one request
type window struct {
	count     int64
	remaining int
	reset     time.Duration
}

// fixedWindow counts requests per client in Redis. The first request of a
// window sets the key expiry.
type fixedWindow struct {
	client *redis.Client
	config RateLimitConfig
}

func (f *fixedWindow) hit(ctx context.Context, clientID string) (window, error) {
	key := fmt.Sprintf("%s:%s", f.config.KeyPrefix, clientID)

	count, err := f.client.Incr(ctx, key).Result()
	if err != nil {
		return window{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := f.client.Expire(ctx, key, f.config.Window).Err(); err != nil {
			return window{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	ttl, err := f.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = f.config.Window
	}

	remaining := f.config.RequestsPerWindow - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return window{count: count, remaining: remaining, reset: ttl}, nil
}

// clientID identifies the caller: the signed-in user when known, otherwise
// the client address without its port
func clientID(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok && userID != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimitMiddleware implements fixed window rate limiting using Redis.
// Redis failures let the request through.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := &fixedWindow{client: redisClient, config: config}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientID(r)

			win, err := limiter.hit(r.Context(), id)
			if err != nil {
				logger.Error("Rate limiter unavailable", zap.Error(err), zap.String("client_id", id))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(win.remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(win.reset).Unix(), 10))

			if win.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", id),
					zap.Int64("count", win.count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				retry := int(win.reset.Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
