package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	limiters sync.Map
	limit    rate.Limit
	burst    int
	logger   *slog.Logger
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second with
// the given burst, and starts evicting idle buckets every cleanupEvery.
func NewRateLimiter(rps float64, burst int, cleanupEvery time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:  rate.Limit(rps),
		burst:  burst,
		logger: logger,
		stop:   make(chan struct{}),
	}
	go rl.cleanupLimiters(cleanupEvery)
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rl.limit, rl.burst))
	return limiter.(*rate.Limiter)
}

// cleanupLimiters drops buckets that have refilled completely, i.e. clients
// that have been idle for at least burst/rps seconds.
func (rl *RateLimiter) cleanupLimiters(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.limiters.Range(func(key, value any) bool {
				if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !rl.getLimiter(ip).Allow() {
			rl.logger.Warn("Rate limit exceeded", "ip", ip)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Rate limit exceeded",
			})
		}
		return c.Next()
	}
}
