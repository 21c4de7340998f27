package server

import (
	"net/http"

	"github.com/go-chi/cors"
)

// SecurityConfig controls the headers added to every response.
type SecurityConfig struct {
	// EnableCORS turns on CORS handling for browser clients.
	EnableCORS bool
	// AllowedOrigins lists the origins allowed to read responses. "*" allows
	// any origin.
	AllowedOrigins []string
	// AllowedMethods lists the methods allowed in cross-origin requests.
	AllowedMethods []string
	// MaxAge is how long, in seconds, browsers may cache a preflight answer.
	MaxAge int
}

// DefaultSecurityConfig returns a read-only, any-origin configuration
// suitable for a metrics endpoint.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}
}

func (c SecurityConfig) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           c.MaxAge,
	}
}

// SecurityMiddleware sets the security headers on every response and, when
// config.EnableCORS is set, answers CORS preflight requests without calling
// next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	var h http.Handler = next
	if config.EnableCORS {
		h = cors.New(config.corsOptions()).Handler(next)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-XSS-Protection", "1; mode=block")
		header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		header.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.ServeHTTP(w, r)
	}
}
