package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/walican/walican/internal/config"
	"github.com/walican/walican/internal/metrics"
	"github.com/walican/walican/internal/ratelimit"
	"github.com/walican/walican/internal/server"
	"github.com/walican/walican/internal/storage/sqlite"
	"github.com/walican/walican/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Setup()
		return err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetupWithLevel(level)
	logger := slog.Default()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	eventLimiter := ratelimit.New(ratelimit.Config{
		Attempts: cfg.EventRateLimit,
		Window:   cfg.RateLimitWindow,
		Block:    cfg.RateLimitBlock,
		MaxKeys:  cfg.RateLimitMaxKeys,
	})
	expenseLimiter := ratelimit.New(ratelimit.Config{
		Attempts: cfg.ExpenseRateLimit,
		Window:   cfg.RateLimitWindow,
		Block:    cfg.RateLimitBlock,
		MaxKeys:  cfg.RateLimitMaxKeys,
	})

	router := server.NewRouter(server.Deps{
		Store:           store,
		Logger:          logger,
		Metrics:         metrics.New(prometheus.NewRegistry()),
		DefaultCurrency: cfg.DefaultCurrency,
		MaxAmount:       cfg.MaxExpenseAmount,
		EventLimiter:    eventLimiter,
		ExpenseLimiter:  expenseLimiter,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Connect server starting", "address", srv.Addr, "currency", cfg.DefaultCurrency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error { return eventLimiter.Run(ctx, cfg.RateLimitSweep) })
	g.Go(func() error { return expenseLimiter.Run(ctx, cfg.RateLimitSweep) })

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
