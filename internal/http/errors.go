// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AndresCespedes/inventory-service/internal/inventory"
)

// errorMeta carries request context for operational diagnosis.
type errorMeta struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

// jsonError is the JSON error payload rendered to clients.
type jsonError struct {
	StatusCode int       `json:"statusCode"`
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	Meta       errorMeta `json:"meta"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{
		StatusCode: status,
		Error:      kind,
		Message:    message,
		Meta: errorMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      r.URL.Path,
			Method:    r.Method,
		},
	})
}

// WriteEngineError maps engine error kinds to transport status codes.
// Dependency failures are reported as 502 rather than collapsed into 404,
// so operators can tell an unreachable product service from a missing
// record.
func WriteEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var ie *inventory.Error
	if !errors.As(err, &ie) {
		WriteJSONError(w, r, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}

	status := http.StatusInternalServerError
	switch ie.Kind {
	case inventory.KindValidation:
		status = http.StatusBadRequest
	case inventory.KindRecordNotFound, inventory.KindUpstreamProductMissing:
		status = http.StatusNotFound
	case inventory.KindDependencyUnavailable:
		status = http.StatusBadGateway
	}
	WriteJSONError(w, r, status, string(ie.Kind), ie.Message)
}
