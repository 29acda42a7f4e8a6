package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"invoicegen/internal/caching"
	"invoicegen/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimit caps requests per authenticated user within window. It must run after
// JWTMiddleware. When the counter store is unreachable requests are let through.
func RateLimit(cache caching.CacheService, scope string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cache == nil || limit <= 0 {
				return next(c)
			}
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return next(c)
			}

			limited, err := cache.IsRateLimited(ctx, fmt.Sprintf("%s:%s", scope, userID), limit, window)
			if err != nil {
				slog.WarnContext(ctx, "rate limit check failed", "scope", scope, "error", err)
				return next(c)
			}
			if limited {
				return common.SendTooManyRequests(c)
			}
			return next(c)
		}
	}
}
