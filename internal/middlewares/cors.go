package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

// CORSMiddleware answers cross-origin requests for the configured origins.
// A "*" entry allows any origin; named origins match case-insensitively.
// Preflight requests are answered without reaching the handlers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				w.Header().Add("Vary", "Origin")

				if allowed := resolveOrigin(origin, allowedOrigins, allowAny); allowed != "" {
					w.Header().Set("Access-Control-Allow-Origin", allowed)
					// Credentials cannot be combined with a wildcard origin
					if allowed != "*" {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "3600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolveOrigin picks the Access-Control-Allow-Origin value for a request
// origin, or an empty string when the origin is not allowed.
func resolveOrigin(origin string, allowedOrigins []string, allowAny bool) string {
	if allowAny {
		return "*"
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return origin
		}
	}
	return ""
}
