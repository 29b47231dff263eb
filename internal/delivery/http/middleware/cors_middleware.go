package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS restricts cross-origin callers to the configured origins. Only GET and
// POST with a Content-Type header are allowed; no credentials are shared.
//
// It wraps the whole engine so preflight requests are answered before gin
// routing (gin has no OPTIONS routes).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400, // 24 hours
	})
}
