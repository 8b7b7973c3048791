package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
)

const rateLimitPrefix = "tavlist:ratelimit:"

// fixed window: the first hit of a window sets its expiry
var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter returns nil when client is nil or limit is not positive,
// which RateLimit treats as disabled.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if client == nil || limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

type decision struct {
	allowed   bool
	remaining int
	retry     time.Duration
}

func (l *RateLimiter) allow(ctx context.Context, key string) (decision, error) {
	result, err := allowScript.Run(ctx, l.client, []string{rateLimitPrefix + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return decision{}, err
	}
	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return decision{}, errors.New("unexpected redis rate limit response")
	}
	current, ok := values[0].(int64)
	if !ok {
		return decision{}, errors.New("invalid redis counter response")
	}
	ttlMillis, _ := values[1].(int64)
	return decision{
		allowed:   current <= int64(l.limit),
		remaining: max(l.limit-int(current), 0),
		retry:     time.Duration(max(ttlMillis, 0)) * time.Millisecond,
	}, nil
}

// RateLimit caps requests per client address. Redis failures let the request through.
func RateLimit(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ip := util.ClientIP(c)
		if ip == "" {
			ip = c.ClientIP()
		}
		d, err := l.allow(c.Request.Context(), ip)
		if err != nil {
			klog.Warningf("rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		if !d.allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.retry.Round(time.Second).Seconds())))
			resputil.HTTPError(c, http.StatusTooManyRequests,
				"Muitas requisições. Tente novamente em instantes.", resputil.TooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
