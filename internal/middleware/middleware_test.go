package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/walican/walican/pkg/api"
	"github.com/walican/walican/pkg/api/apiconnect"
)

type stubEventService struct {
	apiconnect.UnimplementedEventServiceHandler
	mu         sync.Mutex
	lastClient string
}

func (s *stubEventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	s.mu.Lock()
	s.lastClient = GetClientKey(ctx)
	s.mu.Unlock()
	if req.Msg.EventID == "missing" {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("event not found"))
	}
	return connect.NewResponse(&api.GetEventResponse{Event: api.Event{ID: req.Msg.EventID}}), nil
}

type countingLimiter struct {
	mu    sync.Mutex
	max   int
	calls map[string]int
}

func (l *countingLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[key]++
	if l.calls[key] > l.max {
		return false, 1500 * time.Millisecond
	}
	return true, 0
}

type recorder struct {
	mu      sync.Mutex
	codes   []string
	limited []string
}

func (r *recorder) ObserveRPC(procedure, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func (r *recorder) RateLimited(procedure string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limited = append(r.limited, procedure)
}

func setupServer(t *testing.T, interceptors ...connect.Interceptor) (apiconnect.EventServiceClient, *stubEventService) {
	t.Helper()

	svc := &stubEventService{}
	path, handler := apiconnect.NewEventServiceHandler(svc, connect.WithInterceptors(interceptors...))
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewEventServiceClient(http.DefaultClient, server.URL), svc
}

func getEvent(client apiconnect.EventServiceClient, eventID, forwardedFor string) error {
	req := connect.NewRequest(&api.GetEventRequest{EventID: eventID})
	if forwardedFor != "" {
		req.Header().Set("X-Forwarded-For", forwardedFor)
	}
	_, err := client.GetEvent(context.Background(), req)
	return err
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		peer   string
		want   string
	}{
		{"peer host", http.Header{}, "10.0.0.1:5555", "10.0.0.1"},
		{"forwarded first hop", http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.2"}}, "10.0.0.1:5555", "203.0.113.7"},
		{"real ip", http.Header{"X-Real-Ip": {"198.51.100.4"}}, "10.0.0.1:5555", "198.51.100.4"},
		{"peer without port", http.Header{}, "pipe", "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClientKey(tt.header, tt.peer); got != tt.want {
				t.Errorf("ClientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientInterceptor(t *testing.T) {
	client, svc := setupServer(t, ClientInterceptor())

	if err := getEvent(client, "ev", "203.0.113.9"); err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.lastClient != "203.0.113.9" {
		t.Errorf("client key = %q, want 203.0.113.9", svc.lastClient)
	}
}

func TestRateLimitInterceptor(t *testing.T) {
	limiter := &countingLimiter{max: 2, calls: map[string]int{}}
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limits := map[string]Limiter{apiconnect.EventServiceGetEventProcedure: limiter}

	client, _ := setupServer(t, ClientInterceptor(), RateLimitInterceptor(limits, rec, logger))

	for i := 0; i < 2; i++ {
		if err := getEvent(client, "ev", "203.0.113.1"); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	err := getEvent(client, "ev", "203.0.113.1")
	if connect.CodeOf(err) != connect.CodeResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Meta().Get("Retry-After") != "2" {
		t.Errorf("Retry-After = %q, want 2", connectErr.Meta().Get("Retry-After"))
	}

	if err := getEvent(client, "ev", "203.0.113.2"); err != nil {
		t.Errorf("other client should not be limited: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.limited) != 1 || rec.limited[0] != apiconnect.EventServiceGetEventProcedure {
		t.Errorf("limited = %v", rec.limited)
	}
}

func TestRateLimitInterceptor_UnlimitedProcedure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	client, _ := setupServer(t, ClientInterceptor(), RateLimitInterceptor(map[string]Limiter{}, nil, logger))

	for i := 0; i < 5; i++ {
		if err := getEvent(client, "ev", ""); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}
}

func TestMetricsInterceptor(t *testing.T) {
	rec := &recorder{}
	client, _ := setupServer(t, MetricsInterceptor(rec))

	_ = getEvent(client, "ev", "")
	_ = getEvent(client, "missing", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.codes) != 2 || rec.codes[0] != "ok" || rec.codes[1] != "not_found" {
		t.Errorf("codes = %v, want [ok not_found]", rec.codes)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	client, _ := setupServer(t, ClientInterceptor(), LoggingInterceptor(logger))

	_ = getEvent(client, "ev", "203.0.113.5")
	_ = getEvent(client, "missing", "203.0.113.5")

	out := buf.String()
	for _, want := range []string{"RPC ok", "RPC error", "client=203.0.113.5", "code=not_found", apiconnect.EventServiceGetEventProcedure} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
