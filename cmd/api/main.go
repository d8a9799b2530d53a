package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/app"
	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/config"
	"github.com/aggarwalmoksh/event-management-sem1/internal/logger"
	"github.com/aggarwalmoksh/event-management-sem1/internal/storage/postgres"
	rediscache "github.com/aggarwalmoksh/event-management-sem1/internal/storage/redis"
	transporthttp "github.com/aggarwalmoksh/event-management-sem1/internal/transport/http"
	"github.com/aggarwalmoksh/event-management-sem1/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	startupTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	readyTimeout    = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.EnvFile != "" {
		log.Info("loaded env file", zap.String("path", cfg.EnvFile))
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	if err := migrations.Apply(startupCtx, pool, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	clk := clock.NewSystem()
	checks := []transporthttp.Check{{Name: "postgres", Ping: pool.Ping}}

	var layouts app.LayoutReader = postgres.NewLayoutRepository(pool, clk)
	// invalidator stays a nil interface when Redis is off.
	var invalidator app.LayoutInvalidator
	if cfg.RedisAddr != "" {
		client, err := rediscache.NewClient(startupCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() { _ = client.Close() }()

		cache := rediscache.NewLayoutCache(client, layouts, cfg.LayoutCacheTTL, log.Named("layout_cache"))
		layouts = cache
		invalidator = cache
		checks = append(checks, transporthttp.Check{Name: "redis", Ping: cache.Ping})
		log.Info("layout cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.LayoutCacheTTL))
	} else {
		log.Info("layout cache disabled, REDIS_ADDR not set")
	}

	bookingSvc := app.NewBookingService(
		postgres.NewBookingRepository(pool),
		clk,
		app.WithBookingTTL(cfg.BookingTTL),
		app.WithLayoutInvalidator(invalidator),
		app.WithBookingLogger(log.Named("booking")),
	)
	confirmSvc := app.NewConfirmationService(
		postgres.NewConfirmationRepository(pool),
		clk,
		app.WithConfirmationInvalidator(invalidator),
		app.WithConfirmationLogger(log.Named("confirmation")),
	)
	selectionSvc := app.NewSelectionService(
		layouts,
		clk,
		app.WithSessionTTL(cfg.SessionTTL),
		app.WithCurrencySymbol(cfg.CurrencySymbol),
		app.WithSelectionLogger(log.Named("selection")),
	)
	adminSvc := app.NewAdminService(
		postgres.NewAdminRepository(pool),
		clk,
		invalidator,
		app.WithAdminLogger(log.Named("admin")),
	)

	go confirmSvc.RunExpiry(ctx, cfg.ExpiryInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/ready", transporthttp.ReadyHandler(readyTimeout, checks...))
	mux.Handle("/events", transporthttp.HandleListEvents(adminSvc))
	mux.Handle("/events/", transporthttp.HandleEventRoutes(selectionSvc, bookingSvc))
	mux.Handle("/selections/", transporthttp.HandleSelections(selectionSvc))
	mux.Handle("/bookings/", transporthttp.HandleBookingRoutes(confirmSvc, confirmSvc, confirmSvc))
	mux.Handle("/admin/events", transporthttp.HandleAdminEvents(adminSvc))
	mux.Handle("/admin/events/", transporthttp.HandleAdminEventResources(adminSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	reqLog := log.Named("http")
	handler := transporthttp.RequestLogger(
		transporthttp.Recover(transporthttp.CORS(cfg.CORSOrigins, mux), reqLog),
		reqLog,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("api listening", zap.String("addr", server.Addr))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}
