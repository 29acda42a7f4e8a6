package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoicegen/internal/common"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, password)
	return nil, "", args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	return nil, "", args.Error(2)
}

func (m *MockAuthService) IssueToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.User, error) {
	args := m.Called(ctx, userID, patch)
	return nil, args.Error(1)
}

type stubLimiter struct {
	hits    map[string]int
	failing bool
}

func (s *stubLimiter) IsRateLimited(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if s.failing {
		return false, errors.New("redis down")
	}
	s.hits[key]++
	return s.hits[key] > limit, nil
}

func (s *stubLimiter) GetInsights(context.Context, uuid.UUID) ([]string, error) { return nil, nil }
func (s *stubLimiter) SetInsights(context.Context, uuid.UUID, []string, time.Duration) error {
	return nil
}
func (s *stubLimiter) InvalidateInsights(context.Context, uuid.UUID) error      { return nil }
func (s *stubLimiter) GetModels(context.Context) ([]models.ModelInfo, error)    { return nil, nil }
func (s *stubLimiter) SetModels(context.Context, []models.ModelInfo, time.Duration) error { return nil }
func (s *stubLimiter) Ping(context.Context) error                               { return nil }

func whoAmI(c echo.Context) error {
	user, ok := common.UserFromContext(c.Request().Context())
	if !ok {
		return c.String(http.StatusInternalServerError, "no user")
	}
	return c.String(http.StatusOK, user.Name)
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/", whoAmI, mw)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware_NoToken(t *testing.T) {
	auth := new(MockAuthService)
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		rec := serve(t, JWTMiddleware(auth), header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"message":"Not authorized, no token"}`, rec.Body.String())
	}
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestJWTMiddleware_TokenFailed(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, fmt.Errorf("%w: expired", services.ErrTokenInvalid))
	auth.On("Authenticate", mock.Anything, "dbfail").Return(nil, errors.New("connection refused"))

	for _, token := range []string{"bad", "dbfail"} {
		rec := serve(t, JWTMiddleware(auth), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Not authorized, token failed"}`, rec.Body.String())
	}
}

func TestJWTMiddleware_AttachesUser(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Authenticate", mock.Anything, "good").Return(&models.User{ID: uuid.New(), Name: "Ada"}, nil)

	rec := serve(t, JWTMiddleware(auth), "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	limiter := &stubLimiter{hits: map[string]int{}}
	user := &models.User{ID: uuid.New(), Name: "Ada"}

	e := echo.New()
	e.GET("/", whoAmI, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(common.WithUser(c.Request().Context(), user)))
			return next(c)
		}
	}, RateLimit(limiter, "ai", 2, time.Minute))

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 3, limiter.hits["ai:"+user.ID.String()])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{failing: true}
	user := &models.User{ID: uuid.New(), Name: "Ada"}

	e := echo.New()
	e.GET("/", whoAmI, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(common.WithUser(c.Request().Context(), user)))
			return next(c)
		}
	}, RateLimit(limiter, "ai", 1, time.Minute))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVersionHeader(t *testing.T) {
	vm := NewVersionMiddleware("v1")
	sunset := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	vm.AddVersion("v1", "deprecated", "Moving to v2", &sunset)

	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, vm.VersionHeader())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Equal(t, "true", rec.Header().Get("X-API-Deprecated"))
	assert.Equal(t, "Moving to v2", rec.Header().Get("X-API-Message"))
	assert.Equal(t, "v1", vm.CurrentVersion())
}
