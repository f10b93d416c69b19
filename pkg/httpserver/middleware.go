package httpserver

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger creates an HTTP middleware for request/response logging.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			if rec.status >= http.StatusInternalServerError {
				logger.Error("HTTP request failed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.status),
					zap.Duration("duration", duration))
			} else {
				logger.Info("HTTP request completed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.status),
					zap.Duration("duration", duration))
			}
		})
	}
}
