// Package main is the entry point for the date-night API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pmartell/datenight/backend/internal/config"
	"github.com/pmartell/datenight/backend/internal/handler"
	"github.com/pmartell/datenight/backend/internal/middleware"
	"github.com/pmartell/datenight/backend/internal/notify"
	"github.com/pmartell/datenight/backend/internal/ratelimit"
	"github.com/pmartell/datenight/backend/internal/validate"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// The JSON logger is not set up yet; slog's default text handler
		// carries this one line.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Rate limiters ----------------------------------------------------
	// Two independent fixed-window limiters: a tight per-client window and a
	// loose global one. Both are owned here and injected, never global state.
	// Janitors bound memory by sweeping expired entries; correctness does not
	// depend on them since expiry is checked on every touch.
	perClient := ratelimit.New(ratelimit.Config{
		Window:      cfg.SubmitRateWindow,
		MaxRequests: cfg.SubmitRateMax,
	})
	global := ratelimit.New(ratelimit.Config{
		Window:      cfg.GlobalRateWindow,
		MaxRequests: cfg.GlobalRateMax,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	perClient.StartJanitor(ctx, janitorInterval(cfg.SubmitRateWindow))
	global.StartJanitor(ctx, janitorInterval(cfg.GlobalRateWindow))

	// --- Notifier ---------------------------------------------------------
	sender := notify.NewResendSender(cfg.ResendAPIKey)
	notifier := notify.New(sender, cfg.NotifyFrom, cfg.NotifyTo, logger)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → CORS → security headers → body cap →
	// SlogLogger → Recoverer. CORS sits early so OPTIONS preflights
	// short-circuit before anything else runs; the recoverer sits innermost
	// so a panic in the handler still gets logged by SlogLogger as a 500.
	srv := handler.NewServer(handler.Deps{
		Validator:       validate.New(),
		Notifier:        notifier,
		PerClient:       perClient,
		Global:          global,
		Log:             logger,
		EmailConfigured: cfg.EmailConfigured(),
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewSecurityHeaders())
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewRecoverer(logger))
	r.Mount("/", srv.Router())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// The write timeout leaves headroom for the notifier's worst case of two
	// backoff waits (2s + 4s) plus three send calls.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// janitorInterval sweeps at most every five minutes, or once per window for
// short windows.
func janitorInterval(window time.Duration) time.Duration {
	const most = 5 * time.Minute
	if window < most {
		return window
	}
	return most
}
