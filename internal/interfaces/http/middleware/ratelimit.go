package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ever-co/invoicing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides per key whether a request fits the budget
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// MemoryLimiter is a process-local token bucket per key. A bucket holds limit
// tokens and refills completely over one window.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	every   rate.Limit
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter creates a limiter and starts its janitor. Call Stop to release it.
func NewMemoryLimiter(limit int, per time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	rl := &MemoryLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  per,
		every:   rate.Every(per / time.Duration(limit)),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

// evictIdle drops buckets that have refilled completely; a fresh bucket is equivalent
func (rl *MemoryLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.window {
			delete(rl.clients, key)
		}
	}
}

// Stop ends the janitor goroutine
func (rl *MemoryLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns the bucket size
func (rl *MemoryLimiter) Limit() int { return rl.limit }

// Allow takes one token from the bucket for key
func (rl *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	allowed := c.limiter.AllowN(now, 1)
	remaining := int(c.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, nil
}

// RedisLimiter shares windows between replicas
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a limiter on an existing client
func NewRedisLimiter(client *redis.Client, limit int, per time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: per, prefix: "invoicing:ratelimit:"}
}

// Limit returns the requests allowed per window
func (rl *RedisLimiter) Limit() int { return rl.limit }

// Allow consumes one request for key. The window starts with the first request.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	k := rl.prefix + key
	count, err := rl.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit counter: %w", err)
	}
	if count == 1 {
		if err := rl.client.PExpire(ctx, k, rl.window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit window: %w", err)
		}
	}
	if int(count) > rl.limit {
		return false, 0, nil
	}
	return true, rl.limit - int(count), nil
}

// RateLimitKey prefers the authenticated tenant and falls back to the client IP
func RateLimitKey(c *gin.Context) string {
	if caller, ok := GetCaller(c); ok {
		return "tenant:" + caller.TenantID.String()
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects requests over the limiter's budget with 429. Limiter
// errors are logged and the request is let through.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := RateLimitKey(c)
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
