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

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/config"
	httptransport "github.com/example/room-booking/internal/http"
	"github.com/example/room-booking/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Ping(context.Background()); err != nil {
		logger.Error("failed to reach storage", "error", err)
		os.Exit(1)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	service := application.NewBookingServiceWithLogger(
		newRoomRepositoryAdapter(storage.Rooms),
		newBookingRepositoryAdapter(storage.Bookings),
		newUserRepositoryAdapter(storage.Users),
		idGenerator,
		now,
		cfg.StrikeDecayMode,
		logger,
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:      httptransport.NewRoomHandler(service, logger),
		Bookings:   httptransport.NewBookingHandler(service, logger),
		Profile:    httptransport.NewProfileHandler(service, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.ReconcileInterval > 0 {
		go runReconcileLoop(ctx, service, cfg.ReconcileInterval, logger)
	} else {
		logger.Info("missed check-in sweep disabled")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// runReconcileLoop sweeps missed check-ins on a fixed interval until the
// context is cancelled. The sweep is idempotent, so overlapping manual
// reconcile requests are harmless.
func runReconcileLoop(ctx context.Context, service *application.BookingService, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := service.ReconcileMissedCheckIns(ctx, time.Now())
			if err != nil {
				logger.Error("missed check-in sweep failed", "error", err)
				continue
			}
			if count > 0 {
				logger.Info("missed check-in sweep applied strikes", "missed_count", count)
			}
		}
	}
}
