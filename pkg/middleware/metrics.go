package middleware

import (
	"net/http"
	"strconv"
	"time"

	"fishtank/pkg/metrics"
)

// Metrics records request counts and latency. Unknown actions are folded
// into "other" so arbitrary paths cannot blow up label cardinality.
func Metrics(knownActions ...string) func(http.Handler) http.Handler {
	known := make(map[string]bool, len(knownActions))
	for _, a := range knownActions {
		known[a] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)

			action := Action(r.URL.Path)
			if !known[action] {
				action = "other"
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, action, strconv.Itoa(wrapped.statusCode)).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, action).Observe(time.Since(start).Seconds())
		})
	}
}
