// Package handler implements the HTTP surface of the date-night API: the
// submission gateway at POST /submitPlan and the health probe at GET /health.
// All handlers are methods on Server so they share one set of dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pmartell/datenight/backend/internal/domain"
	"github.com/pmartell/datenight/backend/internal/notify"
	"github.com/pmartell/datenight/backend/internal/ratelimit"
	"github.com/pmartell/datenight/backend/internal/validate"
)

// Notifier defines the delivery operation the gateway depends on. Defining
// the interface here (in the consumer package) follows the Go convention:
// "accept interfaces, return concrete types". Handler tests inject a stub
// instead of the Resend-backed notifier.
type Notifier interface {
	Notify(ctx context.Context, sub domain.PlanSubmission) notify.Result
}

// Deps carries everything a Server needs. The limiters are passed in as
// explicitly owned instances, never package-level state, so tests construct
// isolated ones per case.
type Deps struct {
	Validator *validate.Validator
	Notifier  Notifier
	// PerClient is the tight window keyed by caller identifier;
	// Global is the loose window on a single shared key. A request must
	// pass both.
	PerClient *ratelimit.Limiter
	Global    *ratelimit.Limiter
	Log       *slog.Logger
	// EmailConfigured reports whether the email dependency has all its
	// settings present; the health probe surfaces it.
	EmailConfigured bool
}

// Server implements the API endpoints. Construct with NewServer and mount
// Router in main.
type Server struct {
	deps Deps
}

// NewServer constructs the Server with all its dependencies.
func NewServer(deps Deps) *Server {
	return &Server{deps: deps}
}

// Router returns the route table for the API. Method and path dispatch live
// here; CORS, security headers, body caps, logging, and panic recovery are
// middleware concerns wired around this router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.MethodNotAllowed(s.methodNotAllowed)
	r.Post("/submitPlan", s.SubmitPlan)
	r.Options("/submitPlan", s.optionsSubmitPlan)
	r.Get("/health", s.GetHealth)
	return r
}

// optionsSubmitPlan answers OPTIONS requests that are not CORS preflights.
// Preflights carry Access-Control-Request-Method and short-circuit in the
// CORS middleware; anything else lands here and still terminates at 200
// with no body, never 405.
func (s *Server) optionsSubmitPlan(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error:   "Method not allowed",
		Message: "Only POST requests are accepted",
	})
}
