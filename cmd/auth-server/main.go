package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Conqueror226/danaya/internal/config"
	"github.com/Conqueror226/danaya/internal/domain/account"
	"github.com/Conqueror226/danaya/internal/platform/db"
	"github.com/Conqueror226/danaya/internal/platform/directory"
	"github.com/Conqueror226/danaya/internal/platform/metrics"
	"github.com/Conqueror226/danaya/internal/platform/middleware"
	"github.com/Conqueror226/danaya/internal/platform/token"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "auth-server",
		Short: "DANAYA authentication service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(*cobra.Command, []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					appliedAt = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.JWTSecret == config.DefaultSecret {
		logger.Warn().Msg("signing tokens with the development default secret; set JWT_SECRET before exposing this service")
	}

	ctx := context.Background()

	// Credential store: PostgreSQL when configured, in-memory otherwise.
	var repo account.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repo = account.NewPGRepo(pool)
		logger.Info().Msg("using postgres credential store")
	} else {
		repo = account.NewMemoryRepo()
		logger.Info().Msg("no DATABASE_URL configured, using in-memory credential store")
	}

	hasher := account.NewBcryptHasher()
	if cfg.SeedDemoUsers {
		n, err := account.Seed(ctx, repo, hasher)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo accounts")
		}
		if n > 0 {
			logger.Info().Int("count", n).Msg("seeded demo accounts")
		}
	}

	svc := account.NewService(repo, hasher, logger)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL())
	verifier := token.NewVerifier([]byte(cfg.JWTSecret))
	registry := directory.NewClient(cfg.RegistryURL, cfg.RegistryLookupTimeout(), logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	e.Use(middleware.RateLimit(rateLimitCfg))

	metrics.Init()
	e.Use(metrics.Middleware())
	e.GET("/metrics", metrics.Handler())

	// Service banner
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "DANAYA Auth Service",
			"version": version,
			"status":  "running",
		})
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		if pool != nil {
			if err := db.Ping(c.Request().Context(), pool); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
					"status": "unhealthy",
					"error":  err.Error(),
					"pool":   db.GetPoolStats(pool),
				})
			}
		}
		users, err := svc.Count(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		body := map[string]interface{}{
			"status":      "healthy",
			"service":     "auth-service",
			"users_count": users,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}
		if pool != nil {
			body["pool"] = db.GetPoolStats(pool)
		}
		return c.JSON(http.StatusOK, body)
	})

	account.NewHandler(svc, issuer, verifier, registry).RegisterRoutes(e)

	// Start server with graceful shutdown
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting auth server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	return nil
}
