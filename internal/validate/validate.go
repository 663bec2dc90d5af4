// Package validate checks and sanitizes untrusted date-plan submissions.
// It is the only place request input is inspected; everything downstream
// (notifier, logging) may assume a PlanSubmission that came out of Check
// satisfies the documented charset and length bounds.
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pmartell/datenight/backend/internal/domain"
)

// maxPayloadBytes is a coarse denial-of-service guard on the serialized
// payload, checked before any field-level work.
const maxPayloadBytes = 10000

const (
	maxNameLen     = 100
	maxActivityLen = 100
	maxCustomLen   = 200
	maxActivities  = 20
	maxFieldLen    = 500 // final safety bound applied by the sanitizer
)

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z0-9\s\-'.,]+$`)
	timeRe     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	activityRe = regexp.MustCompile(`^[A-Za-z0-9\s\-'.,!?()&:;/+]+$`)

	// Characters the sanitizer keeps. Everything else is dropped.
	disallowedRe = regexp.MustCompile(`[^A-Za-z0-9\s\-'.,!?()&:;/+@_=]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// suspiciousPatterns is a blunt defense-in-depth scan over the raw payload.
// A match rejects the whole submission with a single error. False positives
// are acceptable; output is HTML-escaped downstream regardless.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*/\s*script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)expression\s*\(`),
}

// Validator checks raw submission payloads. The clock is injectable so tests
// can pin the date-window check.
type Validator struct {
	now func() time.Time
}

// New constructs a Validator using the wall clock.
func New() *Validator {
	return &Validator{now: time.Now}
}

// NewWithClock constructs a Validator with a fixed clock source for tests.
func NewWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Check validates the raw JSON payload of a submission.
//
// Three whole-payload gates run first and short-circuit with a single error:
// the size cap, the suspicious-pattern scan, and the object-shape check.
// After that, every field is validated independently and all failures are
// accumulated, so the caller gets the complete list in one round trip.
//
// On success the returned PlanSubmission is a sanitized copy of the input
// with SubmittedAt stamped; the error slice is nil.
func (v *Validator) Check(raw []byte) (domain.PlanSubmission, []domain.FieldError) {
	if len(raw) > maxPayloadBytes {
		return domain.PlanSubmission{}, []domain.FieldError{
			{Field: "payload", Message: "payload too large"},
		}
	}

	for _, p := range suspiciousPatterns {
		if p.Match(raw) {
			return domain.PlanSubmission{}, []domain.FieldError{
				{Field: "payload", Message: "payload contains potentially malicious content"},
			}
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.PlanSubmission{}, []domain.FieldError{
			{Field: "payload", Message: "payload must be a JSON object"},
		}
	}

	var errs []domain.FieldError
	var sub domain.PlanSubmission

	if name, ok := v.checkName(fields["name"]); ok {
		sub.Name = name
	} else {
		errs = append(errs, domain.FieldError{Field: "name", Message: nameMessage(fields["name"])})
	}

	if date, ok := v.checkDate(fields["date"]); ok {
		sub.Date = date
	} else {
		errs = append(errs, domain.FieldError{Field: "date", Message: "date must be a valid YYYY-MM-DD date within one year of today"})
	}

	if t, ok := checkTime(fields["time"]); ok {
		sub.Time = t
	} else {
		errs = append(errs, domain.FieldError{Field: "time", Message: "time must be in 24-hour HH:MM format"})
	}

	if acts, msg := checkActivities(fields["activities"]); msg == "" {
		sub.Activities = acts
	} else {
		errs = append(errs, domain.FieldError{Field: "activities", Message: msg})
	}

	if custom, msg := checkCustomActivity(fields["customActivity"]); msg == "" {
		sub.CustomActivity = custom
	} else {
		errs = append(errs, domain.FieldError{Field: "customActivity", Message: msg})
	}

	if len(errs) > 0 {
		return domain.PlanSubmission{}, errs
	}

	sub.SubmittedAt = v.now().UTC()
	return sub, nil
}

// checkName returns the sanitized name and whether it is valid.
func (v *Validator) checkName(raw json.RawMessage) (string, bool) {
	s, ok := decodeString(raw)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNameLen || !nameRe.MatchString(s) {
		return "", false
	}
	return Sanitize(s), true
}

// nameMessage distinguishes a missing name from an invalid one.
func nameMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "name is required"
	}
	return fmt.Sprintf("name must be 1-%d characters of letters, digits, spaces, or -'., punctuation", maxNameLen)
}

// checkDate accepts a YYYY-MM-DD string within one year of now, either way.
func (v *Validator) checkDate(raw json.RawMessage) (string, bool) {
	s, ok := decodeString(raw)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", false
	}
	now := v.now()
	if d.Before(now.AddDate(-1, 0, 0)) || d.After(now.AddDate(1, 0, 0)) {
		return "", false
	}
	return s, true
}

func checkTime(raw json.RawMessage) (string, bool) {
	s, ok := decodeString(raw)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if !timeRe.MatchString(s) {
		return "", false
	}
	return s, true
}

// checkActivities validates the activities array as a unit: any bad entry
// fails the whole field with one combined message, not per-item errors.
func checkActivities(raw json.RawMessage) ([]string, string) {
	if len(raw) == 0 {
		return nil, "at least one activity is required"
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "activities must be an array of strings"
	}
	if len(items) == 0 {
		return nil, "at least one activity is required"
	}
	if len(items) > maxActivities {
		return nil, fmt.Sprintf("no more than %d activities are allowed", maxActivities)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || len(item) > maxActivityLen || !activityRe.MatchString(item) {
			return nil, fmt.Sprintf("each activity must be 1-%d valid characters", maxActivityLen)
		}
		out = append(out, Sanitize(item))
	}
	return out, ""
}

// checkCustomActivity is optional: absent or empty is fine, but a non-empty
// value is held to the same charset rules as a regular activity.
func checkCustomActivity(raw json.RawMessage) (string, string) {
	if len(raw) == 0 {
		return "", ""
	}
	s, ok := decodeString(raw)
	if !ok {
		return "", "customActivity must be a string"
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if len(s) > maxCustomLen || !activityRe.MatchString(s) {
		return "", fmt.Sprintf("customActivity must be at most %d valid characters", maxCustomLen)
	}
	return Sanitize(s), ""
}

// decodeString reports whether raw is a JSON string, returning its value.
func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Sanitize normalizes an untrusted string to the safe character set.
// It strips angle brackets, drops anything outside the allow-list, collapses
// whitespace runs (newlines, tabs) to single spaces, truncates to 500
// characters, and trims. The operation is idempotent:
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = disallowedRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	if len(s) > maxFieldLen {
		s = s[:maxFieldLen]
	}
	return strings.TrimSpace(s)
}
