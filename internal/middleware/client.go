package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClientKeyKey is the context key for the caller's rate-limit identity.
const ClientKeyKey contextKey = "client_key"

// GetClientKey extracts the client key from the context.
// Returns empty string if not found.
func GetClientKey(ctx context.Context) string {
	key, _ := ctx.Value(ClientKeyKey).(string)
	return key
}

// ClientKey identifies the caller of an RPC: the first X-Forwarded-For
// address when a proxy set one, else X-Real-IP, else the peer host.
func ClientKey(header http.Header, peerAddr string) string {
	if fwd := header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(peerAddr); err == nil {
		return host
	}
	return peerAddr
}

// ClientInterceptor stores the caller's client key in the context so later
// interceptors and handlers can read it with GetClientKey.
func ClientInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			key := ClientKey(req.Header(), req.Peer().Addr)
			ctx = context.WithValue(ctx, ClientKeyKey, key)
			return next(ctx, req)
		}
	}
}
