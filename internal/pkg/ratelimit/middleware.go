package ratelimit

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"
)

// Middleware creates a rate limiting middleware keyed by client IP
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		enforce(c, limiter, c.ClientIP())
	}
}

// UserBasedMiddleware creates a rate limiting middleware based on user ID
func UserBasedMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set by the identity middleware
		userID := c.GetString("userID")
		if userID == "" {
			userID = c.ClientIP()
		}
		enforce(c, limiter, userID)
	}
}

func enforce(c *gin.Context, limiter *RateLimiter, key string) {
	limitHeader := strconv.Itoa(limiter.Limit())

	if !limiter.Allow(key) {
		resetTime := limiter.GetResetTime(key)
		retryAfter := int(time.Until(resetTime).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}

		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("X-RateLimit-Reset", resetTime.Format(time.RFC3339))
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		response.TooManyRequests(c, "Rate limit exceeded. Try again later.", gin.H{
			"retry_after": strconv.Itoa(retryAfter) + "s",
			"reset_time":  resetTime.Format(time.RFC3339),
			"limit":       limiter.Limit(),
			"remaining":   0,
		})
		c.Abort()
		return
	}

	c.Header("X-RateLimit-Limit", limitHeader)
	c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.GetRemaining(key)))
	c.Header("X-RateLimit-Reset", limiter.GetResetTime(key).Format(time.RFC3339))

	c.Next()
}
