package logger

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const correlationHeader = "X-Correlation-ID"

type correlationIDKey struct{}

// CorrelationIDFromContext extracts the request's correlation ID, or an
// empty string outside an ops request. The error handler attaches it to
// log records so a failing health or metrics scrape can be traced back to
// the exact request.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}

	return ""
}

// Middleware assigns every ops request a correlation ID. An incoming
// X-Correlation-ID header is honored so external probes can supply their
// own; otherwise a fresh uuid is generated. The ID lands in the request
// context and is echoed back in the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlationHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(correlationHeader, id)

		ctx := context.WithValue(r.Context(), correlationIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
