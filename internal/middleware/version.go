package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active" or "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware(defaultVersion string) *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			defaultVersion: {
				Version: defaultVersion,
				Status:  "active",
				Message: "Current stable API version",
			},
		},
		defaultVersion: defaultVersion,
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", vm.defaultVersion)

			if ver, exists := vm.supportedVersions[vm.defaultVersion]; exists {
				if ver.Status == "deprecated" && ver.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
					h.Set("Warning", "299 invoicegen \"This API version is deprecated and will be removed on "+ver.SunsetDate.Format("2006-01-02")+"\"")
				}
				if ver.Message != "" {
					h.Set("X-API-Message", ver.Message)
				}
			}

			return next(c)
		}
	}
}

func (vm *VersionMiddleware) CurrentVersion() string {
	return vm.defaultVersion
}

// AddVersion adds or replaces a version entry.
func (vm *VersionMiddleware) AddVersion(version, status, message string, sunsetDate *time.Time) {
	vm.supportedVersions[version] = APIVersion{
		Version:    version,
		Status:     status,
		SunsetDate: sunsetDate,
		Message:    message,
	}
}
