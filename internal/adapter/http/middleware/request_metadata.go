package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/gowallet/internal/domain"
)

// RequestMetadata stores the request ID, client IP and user agent in the
// request context so the wallet engine can attach them to audit logs.
// It must run after chi's RequestID and RealIP middleware.
func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := domain.ContextWithRequestMetadata(r.Context(), domain.RequestMetadata{
			RequestID: chimiddleware.GetReqID(r.Context()),
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
