// Package chi serves the admin HTTP endpoints: health and Prometheus metrics.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/studiodex/internal/logger"
	"github.com/kailas-cloud/studiodex/internal/metrics"
	healthuc "github.com/kailas-cloud/studiodex/internal/usecase/health"
)

// HealthChecker runs the component health checks (ISP).
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewAdminRouter creates the admin router and registers its request metrics.
func NewAdminRouter(health HealthChecker, logger *zap.Logger) http.Handler {
	metrics.RegisterAdminMetrics()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(metrics.Middleware())
	r.Use(observe(logger))

	r.Get("/healthz", healthHandler(health))
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

// healthHandler answers 200 when every check passed and 503 otherwise.
func healthHandler(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := health.Check(r.Context())

		checks := make(map[string]string, len(report.Checks))
		for k, v := range report.Checks {
			checks[k] = string(v)
		}

		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
			logpkg.FromContext(r.Context()).Warn("health check failed",
				zap.String("status", string(report.Status)),
				zap.Any("checks", checks),
			)
		}
		writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
