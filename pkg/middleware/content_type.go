package middleware

import (
	"net/http"
	"strings"

	apperrors "fishtank/pkg/errors"
	httputil "fishtank/pkg/http"
	"fishtank/pkg/logger"
)

// acceptedContentTypes are the body types decoded as JSON. text/plain is
// what browsers send for preflight-free cross-origin requests.
var acceptedContentTypes = map[string]bool{
	"application/json": true,
	"text/plain":       true,
}

// ContentTypeValidation rejects bodies declared as something other than JSON.
// A missing Content-Type is accepted and the body is still parsed as JSON.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != "" && !acceptedContentTypes[contentType] {
					rejectInvalidContentType(w, log, r, contentType)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.Split(header, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}

func rejectInvalidContentType(w http.ResponseWriter, log *logger.Logger, r *http.Request, contentType string) {
	log.Warn("Invalid Content-Type header",
		"request_id", RequestIDFromContext(r.Context()),
		"content_type", contentType,
		"path", r.URL.Path,
		"method", r.Method,
	)

	appErr := apperrors.New(apperrors.CodeInvalidInput, "Content-Type must be application/json", http.StatusUnsupportedMediaType).
		WithDetails(map[string]any{"contentType": contentType})
	if err := httputil.WriteError(w, appErr); err != nil {
		log.Error("failed to write error response", "middleware", "ContentTypeValidation", "operation", "WriteError", "error", err)
	}
}
