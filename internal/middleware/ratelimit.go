package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/config"
)

// LoginThrottle limits requests per client IP to cfg.MaxAttempts in a
// fixed window of cfg.Window.  Counters live in Redis so every instance
// shares them.  When Redis is missing or fails, requests pass.
func LoginThrottle(cfg config.LoginThrottleConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":ip:" + ip
			ctx := c.Request().Context()

			// INCR creates the counter at 1; the first hit in a window
			// also starts its expiry.  Redis errors let the request
			// through.
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("login throttle unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if count == 1 {
				if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
					log.Warn("login throttle expire", zap.String("key", key), zap.Error(err))
				}
			}
			remaining := int64(cfg.MaxAttempts) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxAttempts))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			// Over the limit: report the seconds left in the window.
			if count > int64(cfg.MaxAttempts) {
				secs := retryAfter(rdb.TTL(ctx, key).Val(), cfg.Window)
				h.Set("Retry-After", strconv.Itoa(secs))
				log.Info("login throttled", zap.String("ip", ip), zap.Int64("attempts", count))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many login attempts",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func retryAfter(ttl, window time.Duration) int {
	if ttl <= 0 {
		ttl = window
	}
	secs := int((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
