package middleware

import (
	"log/slog"
	"net/http"

	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// SessionIDHeader identifies the cart session of the caller.
const SessionIDHeader = "X-Session-ID"

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, session_id, trace_id and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// Mount it after RequestLogging (correlation_id) and Tracing (span context).
// The session id comes from the context when a session middleware already
// resolved it, or from the X-Session-ID header otherwise.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if logger.SessionIDFromContext(ctx) == "" {
				if id := r.Header.Get(SessionIDHeader); id != "" {
					ctx = logger.WithSessionID(ctx, id)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
