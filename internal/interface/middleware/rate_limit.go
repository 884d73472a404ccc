package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/oksasatya/internship-portal/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits authenticated callers per user and anonymous ones per IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := CurrentUserID(c)
		if uid == 0 {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + strconv.FormatInt(uid, 10)
	}
}

// Lua script: atomic INCR + set EXPIRE when new
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type AllowFunc func(*gin.Context) bool // return true to bypass the limit

// RateLimit allows max requests per window and key.
// - atomic fixed window in redis (lua)
// - per-process token buckets when rdb is nil
// - standard headers (limit/remaining/reset)
// - optional allowlist bypass, OPTIONS never counted
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	var local *localLimiter
	if rdb == nil {
		local = newLocalLimiter(max, window)
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		key := keyFn(c)
		var (
			remaining int
			resetSec  int
			ok        bool
		)
		if local != nil {
			remaining, resetSec, ok = local.allow(key, time.Now())
		} else {
			var err error
			remaining, resetSec, ok, err = redisAllow(c, rdb, key, max, window)
			if err != nil {
				// fail-open when redis errors
				c.Next()
				return
			}
		}

		// https://datatracker.ietf.org/doc/html/rfc6585#section-4
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if !ok {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Fail(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func redisAllow(c *gin.Context, rdb *redis.Client, key string, max int, window time.Duration) (remaining, resetSec int, ok bool, err error) {
	ctx := c.Request.Context()
	countI, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, false, err
	}
	count := toInt(countI)

	ttl, _ := rdb.TTL(ctx, key).Result()
	if ttl > 0 {
		resetSec = int(ttl.Seconds())
	}
	remaining = max - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetSec, count <= max, nil
}

// localLimiter keeps a token bucket per key refilling max tokens per window.
// Buckets idle for longer than a window are full again and get dropped.
type localLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	every   rate.Limit
	buckets map[string]*bucket
	sweepAt time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(max int, window time.Duration) *localLimiter {
	return &localLimiter{
		max:     max,
		window:  window,
		every:   rate.Every(window / time.Duration(max)),
		buckets: map[string]*bucket{},
	}
}

func (l *localLimiter) allow(key string, now time.Time) (remaining, resetSec int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.window {
				delete(l.buckets, k)
			}
		}
		l.sweepAt = now.Add(l.window)
	}

	b, found := l.buckets[key]
	if !found {
		b = &bucket{lim: rate.NewLimiter(l.every, l.max)}
		l.buckets[key] = b
	}
	b.seen = now

	ok = b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)
	remaining = int(tokens)
	if remaining < 0 {
		remaining = 0
	}
	if !ok {
		wait := time.Duration((1 - tokens) / float64(l.every) * float64(time.Second))
		resetSec = int(wait.Seconds()) + 1
	}
	return remaining, resetSec, ok
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
