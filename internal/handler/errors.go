package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pmartell/datenight/backend/internal/domain"
)

// errorResponse is the envelope for every non-200 answer the API gives.
// Details is populated only for validation failures, RetryAfter only for
// rate-limit denials.
type errorResponse struct {
	Success    bool                `json:"success"`
	Error      string              `json:"error"`
	Message    string              `json:"message"`
	Details    []domain.FieldError `json:"details,omitempty"`
	RetryAfter int                 `json:"retryAfter,omitempty"`
}

// writeJSON serializes v with the JSON content type. An encoding failure
// after the header is written cannot change the status anymore, so the
// error is dropped.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// invalidJSONBody is the generic 400 for a body that is not parseable JSON.
func invalidJSONBody() errorResponse {
	return errorResponse{
		Error:   "Invalid JSON",
		Message: "Request body must be valid JSON",
	}
}

// validationFailedBody carries the accumulated field errors back to the form.
func validationFailedBody(details []domain.FieldError) errorResponse {
	return errorResponse{
		Error:   "Validation failed",
		Message: "One or more fields are invalid",
		Details: details,
	}
}
