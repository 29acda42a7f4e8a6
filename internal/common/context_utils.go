package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"invoicegen/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Message: message})
}

// SendValidationError sends a 400 with the given message.
func SendValidationError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, message)
}

func SendUnauthorizedError(c echo.Context, message string) error {
	return SendError(c, http.StatusUnauthorized, message)
}

func SendNotFoundError(c echo.Context, resource string) error {
	return SendError(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func SendTooManyRequests(c echo.Context) error {
	return SendError(c, http.StatusTooManyRequests, "Too many requests, please try again later")
}

// SendServerError sends a 500. The cause, when present, is reported in details.
func SendServerError(c echo.Context, message string, cause error) error {
	resp := ErrorResponse{Message: message}
	if cause != nil {
		resp.Details = cause.Error()
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

// ParseID parses a path identifier. Blank or malformed ids are reported as an error.
func ParseID(idStr, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid id", fieldName)
	}
	return id, nil
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}
