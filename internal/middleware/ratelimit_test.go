package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limitedHandler(t *testing.T, client *redis.Client, limit int) http.Handler {
	t.Helper()
	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "nesswear:ratelimit",
	}
	return RateLimitMiddleware(client, config, zap.NewNop())(okHandler())
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = addr
	return req
}

// Feature: storefront-gateway, Property 9: Rate limiting admits exactly the window budget
func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests past the limit are blocked with 429", prop.ForAll(
		func(limit int, excess int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
			}
			defer mr.Close()

			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer client.Close()

			handler := limitedHandler(t, client, limit)

			allowed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, requestFrom("192.168.1.100:5123"))
				switch w.Code {
				case http.StatusOK:
					allowed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}
			return allowed == limit && blocked == excess
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_Headers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	handler := limitedHandler(t, client, 2)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1000"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	reset, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().Unix())

	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:1000"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate limit exceeded", decodeEnvelope(t, w).Error.Message)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	handler := limitedHandler(t, client, 1)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:1000"))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:1000"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	mr.FastForward(time.Minute + time.Second)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:1000"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_KeysByClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	handler := limitedHandler(t, client, 1)

	// Ports differ between connections from the same host
	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.3:1000"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.3:2000"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.4:1000"))
	assert.Equal(t, http.StatusOK, w.Code)

	// A signed-in user is counted separately from their address
	req := requestFrom("10.0.0.3:3000")
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, "u1"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.True(t, mr.Exists("nesswear:ratelimit:ip:10.0.0.3"))
	assert.True(t, mr.Exists("nesswear:ratelimit:user:u1"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	handler := limitedHandler(t, client, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.5:1000"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
