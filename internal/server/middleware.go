package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// RequestLogger returns a [Middleware] that logs each request with its
// method, path, and handling duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
