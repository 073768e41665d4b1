package middleware

import (
	"fmt"
	"math"

	"github.com/labstack/echo/v4"

	"carbazaar/internal/infrastructure/ratelimit"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/logger"
	"carbazaar/pkg/response"
)

// RateLimit limits requests per client IP.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if ok, wait := limiter.Allow(ip); !ok {
				logger.Warn("Rate limit exceeded for %s, retry in %v", ip, wait)
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
