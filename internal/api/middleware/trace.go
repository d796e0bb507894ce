// Package middleware provides HTTP middleware components for the API server,
// including request tracing and JWT authentication.
package middleware

import (
	"net/http"

	"github.com/quizforge/quizforge-api/internal/api/shared"
)

// TraceMiddleware adds a unique trace ID to each request's context.
// The trace ID is included in error responses and log entries so a
// client-reported failure can be correlated with server logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
