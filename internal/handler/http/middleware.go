package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/LautaroYamil/trabajo-practico-2/internal/session"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/httputil"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/middleware"
)

// SessionID resolves the caller's cart session from the X-Session-ID header.
// A missing or malformed id starts a new session. The id is always echoed
// back so clients can keep addressing the same cart, and the request logger
// is rebuilt from base so it carries the resolved id.
func SessionID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(middleware.SessionIDHeader)
			if !session.ValidID(id) {
				id = session.NewID()
			}
			w.Header().Set(middleware.SessionIDHeader, id)

			ctx := logger.WithSessionID(r.Context(), id)
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext returns the id stored by SessionID.
func sessionFromContext(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
