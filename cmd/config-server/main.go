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

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routewise/pmconfig/internal/auth"
	"github.com/routewise/pmconfig/internal/domain"
	"github.com/routewise/pmconfig/internal/handler"
	"github.com/routewise/pmconfig/internal/infra"
	"github.com/routewise/pmconfig/internal/registry"
	"github.com/routewise/pmconfig/internal/repository"
	"github.com/routewise/pmconfig/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Service settings from the environment
	settings, err := infra.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	// Optional audit database
	var pool *pgxpool.Pool
	if settings.AuditEnabled() {
		if err := infra.RunMigrations(settings.DatabaseURL, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		pool, err = infra.NewPostgresPool(ctx, settings.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		logger.Info("load auditing enabled")
	} else {
		logger.Info("load auditing disabled")
	}

	// Reload signalling
	producer := infra.NewKafkaProducer(settings.KafkaBrokers, settings.KafkaEnabled, logger)
	defer producer.Close()

	// Load the configuration document; the process must not start with a
	// partially loaded model.
	reg := registry.New(nil)
	cfgSvc := service.NewConfigService(settings.ConfigPath, reg, pool, repository.NewLoadRepository(), producer, settings.ReloadTopic, logger)
	if _, err := cfgSvc.LoadInitial(ctx); err != nil {
		logConfigError(logger, err)
		return fmt.Errorf("load configuration: %w", err)
	}

	// Admin auth
	expiry, err := time.ParseDuration(settings.AdminTokenExpiry)
	if err != nil {
		return fmt.Errorf("parse admin token expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(settings.JWTSecret, expiry)

	// Handlers
	resolverHandler := handler.NewResolverHandler(reg)
	adminHandler := handler.NewAdminHandler(cfgSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(settings.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(reg))

	// Resolver queries (routing-engine facing)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/eligibility", resolverHandler.CheckEligibility)
		r.Get("/connectors", resolverHandler.ListConnectors)
		r.Get("/connectors/{name}", resolverHandler.GetConnector)
		r.Get("/mandates/support", resolverHandler.MandateSupport)
		r.Get("/tokenization/{connector}", resolverHandler.GetTokenization)
		r.Get("/tenants/{id}", resolverHandler.GetTenant)
	})

	// Operator surface
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		r.With(auth.RequireRole(auth.RoleOperator)).Post("/reload", adminHandler.Reload)
		r.With(auth.RequireRole(auth.RoleViewer, auth.RoleOperator)).Get("/loads", adminHandler.ListLoads)
	})

	// Start server
	addr := fmt.Sprintf(":%d", settings.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("config server starting", "addr", addr, "config", settings.ConfigPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// logConfigError logs every collected validation problem on its own line so
// operators can fix them in one pass.
func logConfigError(logger *slog.Logger, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			logger.Error("configuration error", "field", fe.Field, "message", fe.Msg)
		}
	}
}
