package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter counts hits of key in a fixed window.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type RedisCounter struct {
	client redis.UniversalClient
}

func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	// first hit opens the window
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("expire %s: %w", key, err)
		}
		return count, window, nil
	}
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("ttl %s: %w", key, err)
	}
	return count, ttl, nil
}

// RateLimit allows limit requests per client IP per window. Counter errors
// let the request through. X-Forwarded-For is read only when trustProxy is
// set, i.e. when a proxy in front of the server overwrites it.
func RateLimit(counter Counter, limit int, window time.Duration, prefix string, trustProxy bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + prefix + ":" + clientIP(r, trustProxy)

			count, ttl, err := counter.Hit(r.Context(), key, window)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				if ttl <= 0 {
					ttl = window
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
				response.Error(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
