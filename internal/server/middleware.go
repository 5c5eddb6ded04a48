package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rackworks/rackviz/pkg/observability"
)

// requestLogger logs one line per request with method, path, status,
// response size, and duration, and reports the request to any
// registered server hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
	})
}
