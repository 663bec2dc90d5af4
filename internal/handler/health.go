package handler

import "net/http"

// healthResponse reports configuration-presence checks for the email
// dependency plus the live size of the shared per-client rate limiter.
type healthResponse struct {
	Status string       `json:"status"`
	Checks healthChecks `json:"checks"`
}

type healthChecks struct {
	EmailConfigured  bool `json:"email_configured"`
	RateLimitEntries int  `json:"rate_limit_entries"`
}

// GetHealth handles GET /health. It returns 200 "ok" when the email
// dependency is configured, 503 "degraded" otherwise; either way the body
// carries the individual checks.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Checks: healthChecks{
			EmailConfigured:  s.deps.EmailConfigured,
			RateLimitEntries: s.deps.PerClient.Size(),
		},
	}
	status := http.StatusOK
	if !s.deps.EmailConfigured {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
