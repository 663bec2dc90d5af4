// Package middleware provides reusable HTTP middleware for the date-night API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on
// allowedOrigins. The submission endpoint is a public form target, so the
// default configuration allows "*". OPTIONS preflights short-circuit here
// with a 200 and never reach the rate limiter or the handler.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:       allowedOrigins,
		AllowedMethods:       []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:       []string{"Content-Type"},
		OptionsSuccessStatus: http.StatusOK,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
