// Package domain contains the core data types for the date-night backend.
// This package has zero external dependencies and is imported by every other
// internal package (validate, notify, handler).
package domain

import "time"

// PlanSubmission is a sanitized date plan as it exits validation.
// Every string field has passed the sanitizer, so the value is safe to
// interpolate into an HTML email body; the notifier still HTML-escapes each
// field at render time as a second layer.
//
// A submission lives for exactly one request: built from the request body,
// validated, handed to the notifier, logged, discarded. Nothing persists it.
type PlanSubmission struct {
	Name           string    `json:"name"`
	Date           string    `json:"date"` // ISO-8601 calendar date (YYYY-MM-DD)
	Time           string    `json:"time"` // 24-hour HH:MM
	Activities     []string  `json:"activities"`
	CustomActivity string    `json:"customActivity,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"` // server-stamped at validation time

	// Diagnostic fields, sanitized like everything else. The IP address is
	// used only for rate-limit keying and logging, never as an identity.
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}

// FieldError describes a single field's validation failure.
// The gateway returns the full accumulated list to the client.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }
