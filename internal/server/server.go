// Package server assembles the HTTP surface: Connect services, the export
// download route, health and metrics.
package server

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/metrics"
	"github.com/walican/walican/internal/middleware"
	"github.com/walican/walican/internal/service"
	"github.com/walican/walican/internal/storage"
	"github.com/walican/walican/pkg/api/apiconnect"
)

// Deps are the collaborators the router needs. Limiters may be nil to
// disable rate limiting of the matching procedure.
type Deps struct {
	Store           storage.Store
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	DefaultCurrency string
	MaxAmount       decimal.Decimal
	EventLimiter    middleware.Limiter
	ExpenseLimiter  middleware.Limiter
}

// NewRouter returns the root handler. Wrap it with h2c for HTTP/2 without TLS.
func NewRouter(d Deps) http.Handler {
	limits := map[string]middleware.Limiter{}
	if d.EventLimiter != nil {
		limits[apiconnect.EventServiceCreateEventProcedure] = d.EventLimiter
	}
	if d.ExpenseLimiter != nil {
		limits[apiconnect.ExpenseServiceCreateExpenseProcedure] = d.ExpenseLimiter
	}

	interceptors := connect.WithInterceptors(
		middleware.ClientInterceptor(),
		middleware.LoggingInterceptor(d.Logger),
		middleware.MetricsInterceptor(d.Metrics),
		middleware.RateLimitInterceptor(limits, d.Metrics, d.Logger),
	)

	eventSvc := service.NewEventService(d.Store, d.Logger, d.DefaultCurrency)
	expenseSvc := service.NewExpenseService(d.Store, d.Logger, d.MaxAmount)
	settlementSvc := service.NewSettlementService(d.Store, d.Logger, d.Metrics)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware)

	eventPath, eventHandler := apiconnect.NewEventServiceHandler(eventSvc, interceptors)
	r.Handle(eventPath+"*", eventHandler)

	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(expenseSvc, interceptors)
	r.Handle(expensePath+"*", expenseHandler)

	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(settlementSvc, interceptors)
	r.Handle(settlementPath+"*", settlementHandler)

	r.Get("/events/{eventID}/export", settlementSvc.ExportHandler)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Retry-After, Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
