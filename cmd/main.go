package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	_ "invoicegen/docs"
	"invoicegen/internal/caching"
	"invoicegen/internal/config"
	"invoicegen/internal/genai"
	"invoicegen/internal/handlers"
	"invoicegen/internal/jobs/background"
	"invoicegen/internal/middleware"
	"invoicegen/internal/repositories"
	"invoicegen/internal/services"
	"invoicegen/pkg/database"
)

const version = "1.0.0"

var configPath string

// @title           invoicegen API
// @version         1.0.0
// @description     Invoices, authentication and AI-assisted drafting for small businesses.
// @BasePath        /api
// @securityDefinitions.apikey  BearerAuth
// @in              header
// @name            Authorization

func main() {
	root := &cobra.Command{
		Use:           "invoicegen",
		Short:         "Invoice management API with AI-assisted drafting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	root.AddCommand(serveCmd(), migrateCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "invoicegen", version)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}

			pool, err := database.NewPool(cmd.Context(), cfg.Database.URL, cfg.Database.MaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return database.Migrate(cmd.Context(), pool)
		},
	}
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	// Redis backs caching and rate limiting; both degrade gracefully when it is down.
	var cacheSvc caching.CacheService
	var cachePing handlers.Pinger
	if cfg.Redis.Addr != "" {
		redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
		}
		cacheSvc = caching.NewRedisCacheService(redisClient)
		cachePing = cacheSvc
	}

	var storage services.MinioService
	var storagePing handlers.Pinger
	if cfg.StorageEnabled() {
		minioSvc, err := services.NewMinioService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := minioSvc.EnsureBucketExists(ctx, cfg.Storage.Bucket); err != nil {
			slog.Warn("could not ensure storage bucket", "bucket", cfg.Storage.Bucket, "error", err)
		}
		storage = minioSvc
		bucket := cfg.Storage.Bucket
		storagePing = handlers.PingFunc(func(ctx context.Context) error { return minioSvc.Ping(ctx, bucket) })
	} else {
		slog.Info("object storage not configured, PDF archiving disabled")
	}

	authOpts := services.AuthOptions{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenLifetime,
		BcryptCost: cfg.Auth.BcryptCost,
	}
	if cfg.Auth.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.Auth.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				slog.Error("failed to refresh JWKS", "url", cfg.Auth.JWKSURL, "error", err)
			},
		})
		if err != nil {
			return fmt.Errorf("failed to load JWKS from %s: %w", cfg.Auth.JWKSURL, err)
		}
		defer jwks.EndBackground()
		authOpts.ExternalKeys = jwt.Keyfunc(jwks.Keyfunc)
	}

	userRepo := repositories.NewUserRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)

	if cfg.AI.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, AI endpoints will fail")
	}
	generator, err := genai.NewClient(ctx, cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(userRepo, authOpts)
	invoiceService := services.NewInvoiceService(invoiceRepo, cacheSvc)
	aiService := services.NewAIService(generator, invoiceService, cacheSvc, services.AIOptions{
		InsightsTTL: cfg.AI.InsightsTTL,
		ModelsTTL:   2 * cfg.Jobs.ModelRefreshInterval,
	})
	documentService := services.NewDocumentService(invoiceService, storage, services.DocumentOptions{
		Bucket:     cfg.Storage.Bucket,
		PresignTTL: cfg.Storage.PresignTTL,
	})

	var refresher background.ModelRefresher
	if cfg.AI.APIKey != "" {
		refresher = aiService
	}
	scheduler, err := background.NewJobScheduler(refresher, invoiceService, background.Intervals{
		ModelRefresh:  cfg.Jobs.ModelRefreshInterval,
		OverdueReport: cfg.Jobs.OverdueReportInterval,
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Error("failed to stop scheduler", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	versionMiddleware := middleware.NewVersionMiddleware(cfg.Server.APIVersion)
	if sunset, _ := cfg.APISunsetDate(); sunset != nil {
		versionMiddleware.AddVersion(cfg.Server.APIVersion, "deprecated", cfg.Server.APIMessage, sunset)
	}
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLogger(slog.Default()))
	e.Use(versionMiddleware.VersionHeader())

	router := &handlers.Router{
		Auth:        handlers.NewAuthHandlers(authService),
		Invoices:    handlers.NewInvoiceHandlers(invoiceService, documentService),
		AI:          handlers.NewAIHandlers(aiService),
		Health:      handlers.NewHealthHandlers(pool, cachePing, storagePing, version),
		AuthService: authService,
		Cache:       cacheSvc,
		AIRateLimit: handlers.RateLimitSettings{Limit: cfg.AI.RateLimit, Window: cfg.AI.RateWindow},
	}
	router.Register(e)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("invoicegen server starting", "version", version, "api_version", versionMiddleware.CurrentVersion(), "port", cfg.Server.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
