// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at the YAML file.
const EnvConfigPath = "INVOICEGEN_CONFIG"

var defaultLocations = []string{"invoicegen.yaml", "invoicegen.yml", ".invoicegen.yaml"}

var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	AI       AIConfig       `yaml:"ai"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	APIVersion      string        `yaml:"api_version"`
	APISunset       string        `yaml:"api_sunset"` // YYYY-MM-DD; marks APIVersion deprecated
	APIMessage      string        `yaml:"api_message"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenLifetime time.Duration `yaml:"token_lifetime"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
	JWKSURL       string        `yaml:"jwks_url"`
}

type AIConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	InsightsTTL time.Duration `yaml:"insights_ttl"`
	RateLimit   int           `yaml:"rate_limit"`
	RateWindow  time.Duration `yaml:"rate_window"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	AccessKey  string        `yaml:"access_key"`
	SecretKey  string        `yaml:"secret_key"`
	UseSSL     bool          `yaml:"use_ssl"`
	Bucket     string        `yaml:"bucket"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

type JobsConfig struct {
	ModelRefreshInterval  time.Duration `yaml:"model_refresh_interval"`
	OverdueReportInterval time.Duration `yaml:"overdue_report_interval"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			AllowedOrigins:  []string{"*"},
			APIVersion:      "v1",
			ShutdownTimeout: 10 * time.Second,
		},
		Log:      LogConfig{Level: "info"},
		Database: DatabaseConfig{MaxConns: 10},
		Auth: AuthConfig{
			TokenLifetime: 7 * 24 * time.Hour,
			BcryptCost:    bcrypt.DefaultCost,
		},
		AI: AIConfig{
			BaseURL:     "https://generativelanguage.googleapis.com",
			Model:       "gemini-2.5-flash",
			Timeout:     60 * time.Second,
			InsightsTTL: 30 * time.Minute,
			RateLimit:   20,
			RateWindow:  time.Minute,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Storage: StorageConfig{
			Bucket:     "invoices",
			PresignTTL: 24 * time.Hour,
		},
		Jobs: JobsConfig{
			ModelRefreshInterval:  6 * time.Hour,
			OverdueReportInterval: time.Hour,
		},
	}
}

// Load resolves the configuration. An empty path falls back to INVOICEGEN_CONFIG
// and then to the default file locations; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		slog.Debug("loaded config file", "path", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile returns INVOICEGEN_CONFIG or the first default location that exists.
func FindConfigFile() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	for _, loc := range defaultLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.JWKSURL, "JWKS_URL")
	setString(&c.AI.APIKey, "GEMINI_API_KEY")
	setString(&c.AI.Model, "GEMINI_MODEL")
	setString(&c.AI.BaseURL, "GEMINI_BASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Storage.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Storage.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Storage.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Storage.Bucket, "MINIO_BUCKET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Server.APIVersion, "API_VERSION")
	setString(&c.Server.APISunset, "API_SUNSET")
	setString(&c.Server.APIMessage, "API_MESSAGE")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q", v)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MINIO_USE_SSL %q", v)
		}
		c.Storage.UseSSL = ssl
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ValidateServe checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServe() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	if _, err := c.APISunsetDate(); err != nil {
		return err
	}
	return nil
}

// APISunsetDate returns the configured sunset of the API version, or nil when the
// version is not deprecated.
func (c *Config) APISunsetDate() (*time.Time, error) {
	if c.Server.APISunset == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", c.Server.APISunset)
	if err != nil {
		return nil, fmt.Errorf("invalid API_SUNSET %q: want YYYY-MM-DD", c.Server.APISunset)
	}
	return &t, nil
}

func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
	}
	return nil
}

// StorageEnabled reports whether object storage credentials were supplied.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != "" && c.Storage.AccessKey != "" && c.Storage.SecretKey != ""
}

// SlogLevel maps the configured level name onto slog; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
