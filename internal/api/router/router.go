// Package router exposes the bot's operational HTTP surface: liveness,
// readiness, and Prometheus metrics. The conversation itself never goes
// through HTTP.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kiranalabs/kiranabot/pkg/logging"
)

// Pinger reports whether a backing service is reachable. Both pgxpool.Pool
// and redis.Client satisfy it through small adapters in cmd/bot.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	MetricsHandler http.Handler

	// Optional dependency probes, reported under /health/ready.
	Database Pinger
	Redis    Pinger
}

// New creates the ops router.
func New(cfg *Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	r.Get("/health/ready", handleReady(cfg))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady pings each configured dependency with a short deadline and
// reports 503 if any is down.
func handleReady(cfg *Config) http.HandlerFunc {
	probes := map[string]Pinger{}
	if cfg.Database != nil {
		probes["database"] = cfg.Database
	}
	if cfg.Redis != nil {
		probes["redis"] = cfg.Redis
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(probes))
		healthy := true
		for name, probe := range probes {
			if err := probe.Ping(ctx); err != nil {
				cfg.Logger.Error("readiness probe failed", "dependency", name, "error", err)
				checks[name] = "down"
				healthy = false
				continue
			}
			checks[name] = "up"
		}

		status := "ok"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{"status": status, "checks": checks})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
