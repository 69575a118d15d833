// Package middleware provides HTTP middleware for the RetroNet relay.
package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS returns middleware that applies cross-origin headers and answers
// every OPTIONS request with 200 and an empty body, preflight or not.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	// Preflights fall through so the status below is always 200. Credentials
	// are never allowed: the relay has no cookies or auth.
	c := cors.New(cors.Options{
		AllowedOrigins:     allowedOrigins,
		AllowedMethods:     []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		AllowCredentials:   false,
		OptionsPassthrough: true,
		MaxAge:             300,
	})
	wildcard := slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				// Bare OPTIONS probes carry no preflight headers, so the
				// cors handler leaves them untouched.
				if wildcard && w.Header().Get("Access-Control-Allow-Origin") == "" {
					w.Header().Set("Access-Control-Allow-Origin", "*")
					w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				}
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
