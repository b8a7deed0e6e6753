package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"roomsense/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window counter in Redis. The window is
// one minute; the key combines a scope label with the caller identity
// (user id when authenticated, client ip otherwise). Redis outages fail
// open: throttling is protection, not a correctness guarantee.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return { current, ttl }
`)

func (rl *RateLimiter) Limit(scope string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil || perMinute <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:" + scope + ":" + callerIdentity(c)

		vals, err := fixedWindowScript.Run(c.Request.Context(), rl.rdb, []string{key}, 60).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable", "scope", scope, "error", err.Error())
			c.Next()
			return
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 2 {
			c.Next()
			return
		}

		current, _ := arr[0].(int64)
		ttl, _ := arr[1].(int64)

		remaining := int64(perMinute) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if current > int64(perMinute) {
			retryAfter := time.Duration(ttl) * time.Second
			c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
			httperr.Abort(c, http.StatusTooManyRequests, nil, "rate limit exceeded")
			return
		}

		c.Next()
	}
}

func callerIdentity(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return "user:" + userID.String()
	}

	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
