package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"fishtank/pkg/logger"
)

// Action is the last non-empty path segment, e.g. "addFish" for
// /api/addFish.
func Action(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Diagnostic appends one "<METHOD> <action> - <status>" line per request.
func Diagnostic(diag *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)
			diag.Info(fmt.Sprintf("%s %s - %d", r.Method, Action(r.URL.Path), wrapped.statusCode),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}
