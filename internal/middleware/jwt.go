package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"invoicegen/internal/common"
	"invoicegen/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
)

// JWTMiddleware requires a bearer token, verifies it and attaches the token's user
// to the request context.
func JWTMiddleware(authService services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, "Bearer") {
				return common.SendUnauthorizedError(c, msgNoToken)
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if tokenString == "" {
				return common.SendUnauthorizedError(c, msgNoToken)
			}

			ctx := c.Request().Context()
			user, err := authService.Authenticate(ctx, tokenString)
			if err != nil {
				if !errors.Is(err, services.ErrTokenInvalid) {
					slog.ErrorContext(ctx, "token verification failed", "error", err)
				}
				return common.SendUnauthorizedError(c, msgTokenFailed)
			}

			c.SetRequest(c.Request().WithContext(common.WithUser(ctx, user)))
			return next(c)
		}
	}
}
