package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/walican/walican/internal/storage/sqlite"
	"github.com/walican/walican/pkg/api"
	"github.com/walican/walican/pkg/api/apiconnect"
)

type testClients struct {
	events      apiconnect.EventServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
	observer    *transferRecorder
}

type transferRecorder struct {
	mu     sync.Mutex
	counts []int
}

func (r *transferRecorder) ObserveSettlement(transfers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, transfers)
}

func (r *transferRecorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.counts...)
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) (*testClients, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	observer := &transferRecorder{}

	eventSvc := NewEventService(store, logger, "USD")
	expenseSvc := NewExpenseService(store, logger, decimal.NewFromInt(10_000_000))
	settlementSvc := NewSettlementService(store, logger, observer)
	settlementSvc.now = func() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewEventServiceHandler(eventSvc))
	mux.Handle(apiconnect.NewExpenseServiceHandler(expenseSvc))
	mux.Handle(apiconnect.NewSettlementServiceHandler(settlementSvc))

	server := httptest.NewServer(mux)

	clients := &testClients{
		events:      apiconnect.NewEventServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		observer:    observer,
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return clients, cleanup
}

// createTrio creates an event with Alice, Bob and Charlie in that order.
func createTrio(t *testing.T, c *testClients, currency string) api.Event {
	t.Helper()

	resp, err := c.events.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		Name:         "Weekend trip",
		Currency:     currency,
		Participants: []string{"Alice", "Bob", "Charlie"},
	}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return resp.Msg.Event
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}
