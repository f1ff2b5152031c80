package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbill/medbill/internal/config"
	"github.com/medbill/medbill/internal/domain/billing"
	"github.com/medbill/medbill/internal/domain/dashboard"
	"github.com/medbill/medbill/internal/domain/identity"
	"github.com/medbill/medbill/internal/domain/patient"
	"github.com/medbill/medbill/internal/domain/settings"
	"github.com/medbill/medbill/internal/platform/auth"
	"github.com/medbill/medbill/internal/platform/db"
	"github.com/medbill/medbill/internal/platform/middleware"
	"github.com/medbill/medbill/internal/seed"
)

var migrationsDir string

func main() {
	root := &cobra.Command{
		Use:   "medbill-server",
		Short: "Hospital billing administration API server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "path to migrations directory")

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("applied %d migration(s)\n", n)
				return nil
			})
		},
	}

	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied " + s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
				}
				return nil
			})
		},
	}
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load development data (admin login, settings, sample catalog)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}

	root.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func withMigrator(fn func(context.Context, *db.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, db.NewMigrator(pool, migrationsDir))
}

func runSeed() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	userSvc := identity.NewService(identity.NewUserRepoPG(pool))
	settingsSvc := settings.NewService(settings.NewRepoPG(pool))
	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	billingSvc := billing.NewService(
		billing.NewServiceRepoPG(pool),
		billing.NewInvoiceRepoPG(pool),
		patientRepo,
		settingsSvc,
	)

	return seed.New(userSvc, settingsSvc, patientSvc, billingSvc, logger).Run(ctx)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	cancel()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	var tokens *auth.TokenIssuer
	if cfg.TokenSecret != "" {
		tokens = auth.NewTokenIssuer([]byte(cfg.TokenSecret), time.Duration(cfg.TokenTTLMins)*time.Minute)
	}

	userSvc := identity.NewService(identity.NewUserRepoPG(pool))
	settingsSvc := settings.NewService(settings.NewRepoPG(pool))
	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	billingSvc := billing.NewService(
		billing.NewServiceRepoPG(pool),
		billing.NewInvoiceRepoPG(pool),
		patientRepo,
		settingsSvc,
	)
	dashboardSvc := dashboard.NewService(dashboard.NewRepoPG(pool))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	api := e.Group("/api")
	if cfg.AuthEnabled {
		if tokens == nil {
			return fmt.Errorf("AUTH_ENABLED requires TOKEN_SECRET")
		}
		api.Use(auth.Middleware(tokens, "/api/auth/login"))
	}

	identity.NewHandler(userSvc, tokens).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	settings.NewHandler(settingsSvc).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api)

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
