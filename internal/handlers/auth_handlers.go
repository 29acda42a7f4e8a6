package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"invoicegen/internal/common"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration, login and the caller's profile
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse documents the user shape rendered by renderUser. Token is set on
// register and login only.
type UserResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
	Token        string `json:"token,omitempty"`
}

func (h *AuthHandlers) sendUser(c echo.Context, status int, user *models.User, token string) error {
	body, err := renderUser(user, token)
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "failed to render user", "error", err)
		return common.SendServerError(c, "Server error", nil)
	}
	return c.JSON(status, body)
}

// Register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New account"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  common.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			return common.SendValidationError(c, "Please fill all fields")
		case errors.Is(err, services.ErrEmailTaken):
			return common.SendValidationError(c, "User already exists")
		}
		slog.ErrorContext(c.Request().Context(), "registration failed", "error", err)
		return common.SendServerError(c, "Server error", nil)
	}

	return h.sendUser(c, http.StatusCreated, user, token)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  UserResponse
// @Failure      401   {object}  common.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendUnauthorizedError(c, "Invalid credentials")
		}
		slog.ErrorContext(c.Request().Context(), "login failed", "error", err)
		return common.SendServerError(c, "Server error", nil)
	}

	return h.sendUser(c, http.StatusOK, user, token)
}

// GetProfile godoc
// @Summary      Current user's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}

	user, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		return h.profileError(c, err)
	}
	return h.sendUser(c, http.StatusOK, user, "")
}

// UpdateProfile godoc
// @Summary      Update the caller's profile
// @Description  Only non-empty fields are changed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.ProfilePatch  true  "Profile fields"
// @Success      200   {object}  UserResponse
// @Failure      404   {object}  common.ErrorResponse
// @Router       /auth/me [put]
// @Security     BearerAuth
func (h *AuthHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}

	var patch models.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	user, err := h.authService.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return h.profileError(c, err)
	}
	return h.sendUser(c, http.StatusOK, user, "")
}

func (h *AuthHandlers) profileError(c echo.Context, err error) error {
	if errors.Is(err, services.ErrUserNotFound) {
		return common.SendNotFoundError(c, "User")
	}
	slog.ErrorContext(c.Request().Context(), "profile request failed", "error", err)
	return common.SendServerError(c, "Server error", nil)
}
