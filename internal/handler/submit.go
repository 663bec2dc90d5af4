package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmartell/datenight/backend/internal/middleware"
	"github.com/pmartell/datenight/backend/internal/ratelimit"
	"github.com/pmartell/datenight/backend/internal/validate"
)

// globalKey is the single shared bucket every request counts against,
// independent of its caller identifier.
const globalKey = "global"

// submitResponse is the 200 envelope. EmailSent is a soft flag: the plan is
// accepted whether or not the notification went out.
type submitResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	SubmissionID string    `json:"submissionId"`
	SubmittedAt  time.Time `json:"submittedAt"`
	EmailSent    bool      `json:"emailSent"`
}

// SubmitPlan handles POST /submitPlan: rate limit, parse, validate, notify,
// respond. Every path out of here is a well-formed JSON response; the only
// unhandled failures are panics, which the recoverer middleware turns into a
// generic 500.
func (s *Server) SubmitPlan(w http.ResponseWriter, r *http.Request) {
	clientKey := middleware.ClientIP(r)

	// Both limiters are touched before either decision is read, so a
	// request denied by one still consumes a slot of the other's budget.
	// Observable behavior; do not reorder without flagging it.
	globalDec := s.deps.Global.Allow(globalKey)
	clientDec := s.deps.PerClient.Allow(clientKey)

	// Rate headers always reflect the per-client window, but only 429 and
	// 200 responses carry them.
	if !globalDec.Allowed {
		setRateHeaders(w, clientDec, s.deps.PerClient)
		s.writeRateLimited(w, globalDec, "Too many requests overall, please try again later")
		return
	}
	if !clientDec.Allowed {
		setRateHeaders(w, clientDec, s.deps.PerClient)
		s.writeRateLimited(w, clientDec, "Too many submissions from your address, please try again later")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, invalidJSONBody())
		return
	}

	sub, fieldErrs := s.deps.Validator.Check(body)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationFailedBody(fieldErrs))
		return
	}

	sub.UserAgent = validate.Sanitize(r.UserAgent())
	sub.IPAddress = validate.Sanitize(clientKey)

	id := newSubmissionID(sub.SubmittedAt)
	s.deps.Log.InfoContext(r.Context(), "plan submitted",
		"submission_id", id,
		"client_ip", clientKey,
		"plan_date", sub.Date,
		"activity_count", len(sub.Activities),
	)

	res := s.deps.Notifier.Notify(r.Context(), sub)
	s.deps.Log.InfoContext(r.Context(), "notification outcome",
		"submission_id", id,
		"email_sent", res.Sent,
		"attempts", res.Attempts,
	)

	setRateHeaders(w, clientDec, s.deps.PerClient)
	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		Message:      "Your date plan has been received",
		SubmissionID: id,
		SubmittedAt:  sub.SubmittedAt,
		EmailSent:    res.Sent,
	})
}

// writeRateLimited answers 429 with retry guidance from the denying window.
func (s *Server) writeRateLimited(w http.ResponseWriter, dec ratelimit.Decision, msg string) {
	retryAfter := dec.RetryAfter(time.Now())
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeJSON(w, http.StatusTooManyRequests, errorResponse{
		Error:      "Rate limit exceeded",
		Message:    msg,
		RetryAfter: retryAfter,
	})
}

// setRateHeaders reflects the per-client window on the response.
func setRateHeaders(w http.ResponseWriter, dec ratelimit.Decision, l *ratelimit.Limiter) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Max()))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(dec.ResetTime.Unix(), 10))
}

// newSubmissionID builds an identifier of the form sub_<unix-millis>_<suffix>
// where the suffix is nine lowercase hex characters of a fresh UUID.
func newSubmissionID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("sub_%d_%s", at.UnixMilli(), suffix)
}
