package middleware

import (
	"context"
	"net/http"
)

// RequestMeta stores the client IP and User-Agent in the request context so
// the audit trail can record them. Runs after chi's RealIP middleware, which
// rewrites RemoteAddr from X-Forwarded-For.
func RequestMeta() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyClientIP, r.RemoteAddr)
			ctx = context.WithValue(ctx, ContextKeyUserAgent, r.UserAgent())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
