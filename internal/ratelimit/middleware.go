package ratelimit

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mandar-Sonkusare/esg/internal/auth"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

func retryAfterSeconds(result *Result) string {
	seconds := int(result.RetryAfter.Seconds())
	if result.RetryAfter > 0 && seconds == 0 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// IPRateLimitMiddleware enforces the per-minute limit on every request
func (rl *RateLimiter) IPRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := rl.AllowIP(c.Request.Context(), ip)
		if err != nil {
			// a failing limiter must not take the API down
			slog.Error("Rate limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitIPBlock()
			}
			retryAfter := retryAfterSeconds(result)
			c.Header("Retry-After", retryAfter)
			errors.Respond(c, errors.NewRateLimitError(retryAfter+"s"))
			return
		}

		c.Next()
	}
}

// SubmitRateLimitMiddleware enforces the per-user hourly submission limit.
// It must run after the auth middleware.
func (rl *RateLimiter) SubmitRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == "" {
			c.Next()
			return
		}

		result, err := rl.AllowSubmit(c.Request.Context(), userID)
		if err != nil {
			slog.Error("Submit rate limit check failed", "user_id", userID, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-User-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-User-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-User-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitUserBlock()
				rl.metrics.IncrementRateLimitEndpoint(c.FullPath())
			}
			retryAfter := retryAfterSeconds(result)
			c.Header("Retry-After", retryAfter)
			errors.Respond(c, errors.NewRateLimitError(retryAfter+"s"))
			return
		}

		c.Next()
	}
}
