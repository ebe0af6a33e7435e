package server

import (
	"net/http"
)

// loggingMiddleware shims in a handler middleware that logs requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", "method", r.Method, "uri", r.RequestURI, "length", r.ContentLength)
		next.ServeHTTP(w, r)
	})
}
