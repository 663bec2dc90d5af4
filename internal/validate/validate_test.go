package validate_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmartell/datenight/backend/internal/validate"
)

// fixedNow pins the validator clock so the date-window check is deterministic.
var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newValidator() *validate.Validator {
	return validate.NewWithClock(func() time.Time { return fixedNow })
}

// TestCheck_validSubmission verifies that a well-formed payload passes and
// comes back sanitized with SubmittedAt stamped.
func TestCheck_validSubmission(t *testing.T) {
	v := newValidator()

	sub, errs := v.Check([]byte(`{
		"name": "John Doe",
		"date": "2025-02-14",
		"time": "19:00",
		"activities": ["Dinner", "Movie night"],
		"customActivity": "Stargazing at the lake"
	}`))

	require.Empty(t, errs)
	assert.Equal(t, "John Doe", sub.Name)
	assert.Equal(t, "2025-02-14", sub.Date)
	assert.Equal(t, "19:00", sub.Time)
	assert.Equal(t, []string{"Dinner", "Movie night"}, sub.Activities)
	assert.Equal(t, "Stargazing at the lake", sub.CustomActivity)
	assert.Equal(t, fixedNow, sub.SubmittedAt)
}

// TestCheck_accumulatesFieldErrors verifies that every invalid field is
// reported in one pass rather than stopping at the first failure.
func TestCheck_accumulatesFieldErrors(t *testing.T) {
	v := newValidator()

	_, errs := v.Check([]byte(`{"name":"", "date":"not-a-date", "time":"25:99", "activities":[]}`))

	require.GreaterOrEqual(t, len(errs), 4)
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"name", "date", "time", "activities"} {
		assert.True(t, fields[f], "expected an error for field %q", f)
	}
}

// TestCheck_oversizedPayload verifies the 10 KB gate rejects with exactly one
// error before any field-level validation runs.
func TestCheck_oversizedPayload(t *testing.T) {
	v := newValidator()

	payload := `{"name":"John Doe","date":"2025-02-14","time":"19:00","activities":["` +
		strings.Repeat("a", 11000) + `"]}`
	_, errs := v.Check([]byte(payload))

	require.Len(t, errs, 1)
	assert.Equal(t, "payload", errs[0].Field)
	assert.Contains(t, errs[0].Message, "too large")
}

// TestCheck_suspiciousContent verifies the pattern scan rejects the whole
// payload with a single error even when every field is otherwise valid.
func TestCheck_suspiciousContent(t *testing.T) {
	v := newValidator()

	for _, payload := range []string{
		`{"name":"John","date":"2025-02-14","time":"19:00","activities":["<script>alert(1)</script>"]}`,
		`{"name":"John","date":"2025-02-14","time":"19:00","activities":["JAVASCRIPT:void(0)"]}`,
		`{"name":"John","date":"2025-02-14","time":"19:00","activities":["a"],"customActivity":"x onerror=1"}`,
		`{"name":"John","date":"2025-02-14","time":"19:00","activities":["eval (code)"]}`,
	} {
		_, errs := v.Check([]byte(payload))
		require.Len(t, errs, 1, "payload: %s", payload)
		assert.Contains(t, errs[0].Message, "malicious", "payload: %s", payload)
	}
}

// TestCheck_nonObjectPayload verifies arrays, scalars, and null are rejected
// with a single generic error.
func TestCheck_nonObjectPayload(t *testing.T) {
	v := newValidator()

	for _, payload := range []string{`[]`, `"hello"`, `42`, `null`} {
		_, errs := v.Check([]byte(payload))
		require.Len(t, errs, 1, "payload: %s", payload)
		assert.Equal(t, "payload", errs[0].Field)
	}
}

// TestCheck_dateWindow verifies the ±1 year bound around the injected clock.
func TestCheck_dateWindow(t *testing.T) {
	v := newValidator()

	valid := func(date string) bool {
		_, errs := v.Check([]byte(`{"name":"John","date":"` + date + `","time":"19:00","activities":["Dinner"]}`))
		return len(errs) == 0
	}

	assert.True(t, valid("2025-02-14"))
	assert.True(t, valid("2024-06-01"))
	assert.False(t, valid("2023-12-31"), "more than a year in the past")
	assert.False(t, valid("2026-06-01"), "more than a year in the future")
	assert.False(t, valid("2025-02-30"), "not a real calendar date")
}

// TestCheck_timeFormat covers the 24-hour HH:MM boundary values.
func TestCheck_timeFormat(t *testing.T) {
	v := newValidator()

	valid := func(tm string) bool {
		_, errs := v.Check([]byte(`{"name":"John","date":"2025-02-14","time":"` + tm + `","activities":["Dinner"]}`))
		return len(errs) == 0
	}

	assert.True(t, valid("00:00"))
	assert.True(t, valid("23:59"))
	assert.False(t, valid("24:00"))
	assert.False(t, valid("19:60"))
	assert.False(t, valid("7:00"), "hour must be two digits")
}

// TestCheck_activitiesAsUnit verifies one combined error for the whole field,
// whatever is wrong inside the array.
func TestCheck_activitiesAsUnit(t *testing.T) {
	v := newValidator()

	check := func(activities string) []string {
		_, errs := v.Check([]byte(`{"name":"John","date":"2025-02-14","time":"19:00","activities":` + activities + `}`))
		var fields []string
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		return fields
	}

	assert.Equal(t, []string{"activities"}, check(`[]`))
	assert.Equal(t, []string{"activities"}, check(`["Dinner", ""]`))
	assert.Equal(t, []string{"activities"}, check(`["Dinner", 42]`))
	assert.Equal(t, []string{"activities"}, check(`"Dinner"`))

	tooMany := `["` + strings.Repeat(`a","`, 21) + `a"]`
	assert.Equal(t, []string{"activities"}, check(tooMany))
}

// TestSanitize_idempotent verifies sanitize(sanitize(s)) == sanitize(s) for
// adversarial inputs.
func TestSanitize_idempotent(t *testing.T) {
	inputs := []string{
		"  John   Doe  ",
		"a\t\nb\r\nc",
		"hello <b>world</b>",
		"tabs\tand\nnewlines",
		"unicode é世界 mixed",
		"x @ y # z $ w",
		strings.Repeat("word ", 200),
		"",
	}
	for _, in := range inputs {
		once := validate.Sanitize(in)
		twice := validate.Sanitize(once)
		assert.Equal(t, once, twice, "input: %q", in)
	}
}

// TestSanitize_rules spot-checks the individual normalization steps.
func TestSanitize_rules(t *testing.T) {
	assert.Equal(t, "ab", validate.Sanitize("a<>b"))
	assert.Equal(t, "bbold/b", validate.Sanitize("<b>bold</b>"), "angle brackets are stripped, not tag-parsed")
	assert.Equal(t, "a b c", validate.Sanitize("a   b\t\nc"))
	assert.Equal(t, "trimmed", validate.Sanitize("   trimmed   "))
	assert.Equal(t, "no emoji here", validate.Sanitize("no emoji \U0001F600 here"))
	assert.LessOrEqual(t, len(validate.Sanitize(strings.Repeat("a", 600))), 500)
}
