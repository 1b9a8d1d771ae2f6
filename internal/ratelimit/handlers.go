package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HandleRateLimitStatus reports the configured limits, the limiter backend
// and block counters
func (rl *RateLimiter) HandleRateLimitStatus(c *gin.Context) {
	status := gin.H{
		"ip": c.ClientIP(),
		"limits": gin.H{
			"ip_per_minute": gin.H{
				"limit":  rl.config.IPLimitPerMin,
				"period": "1 minute",
			},
			"submit_per_hour": gin.H{
				"limit":  rl.config.SubmitLimitPerHour,
				"period": "1 hour",
			},
		},
		"limiter":   rl.GetStats(),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if rl.metrics != nil {
		status["metrics"] = rl.metrics.GetRateLimitStats()
	}

	c.JSON(http.StatusOK, status)
}
