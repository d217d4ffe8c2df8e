package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"connectrpc.com/connect"
)

// Limiter is the subset of ratelimit.Limiter the interceptor needs.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// RateLimitObserver is notified of refused calls.
type RateLimitObserver interface {
	RateLimited(procedure string)
}

// RateLimitInterceptor applies a limiter per procedure, keyed by client.
// Procedures missing from limits are not limited. Refused calls fail with
// CodeResourceExhausted and a Retry-After hint in seconds.
func RateLimitInterceptor(limits map[string]Limiter, observer RateLimitObserver, logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			limiter, ok := limits[procedure]
			if !ok {
				return next(ctx, req)
			}

			client := GetClientKey(ctx)
			allowed, retryAfter := limiter.Allow(client)
			if allowed {
				return next(ctx, req)
			}

			if observer != nil {
				observer.RateLimited(procedure)
			}
			seconds := int64((retryAfter + time.Second - 1) / time.Second)
			logger.Warn("Rate limit exceeded", "procedure", procedure, "client", client, "retry_after_s", seconds)

			connectErr := connect.NewError(connect.CodeResourceExhausted,
				fmt.Errorf("too many requests, retry in %d seconds", seconds))
			connectErr.Meta().Set("Retry-After", strconv.FormatInt(seconds, 10))
			return nil, connectErr
		}
	}
}
