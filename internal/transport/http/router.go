// Package http assembles the HTTP surface: middleware chain, public and
// protected route groups, and operational endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	assessmenthandler "riskgate/internal/assessment/handler"
	"riskgate/internal/auth"
	authhandler "riskgate/internal/auth/handler"
	masterdatahandler "riskgate/internal/masterdata/handler"
	"riskgate/internal/platform/metrics"
	"riskgate/internal/platform/middleware"
	submissionhandler "riskgate/internal/submission/handler"
	audithandler "riskgate/pkg/platform/audit/handler"
	"riskgate/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// RouterConfig carries everything the router needs. MetricsHandler serves
// /metrics; Revocations may be nil when no revocation list is configured.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	JWTValidator   middleware.JWTValidator
	Revocations    middleware.RevocationChecker

	Auth        *authhandler.Handler
	Assessments *assessmenthandler.Handler
	MasterData  *masterdatahandler.Handler
	Submissions *submissionhandler.Handler
	AuditTrail  *audithandler.Handler
}

// NewRouter builds the chi router. Reads of master data and submission
// operations require authentication; reviews additionally require the
// approver or admin role, and master data writes the admin role.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	cfg.Auth.Register(r)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(cfg.JWTValidator, cfg.Revocations, cfg.Logger))

		cfg.Auth.RegisterProtected(protected)
		cfg.Assessments.Register(protected)
		cfg.MasterData.Register(protected)
		cfg.Submissions.Register(protected)

		protected.Group(func(review chi.Router) {
			review.Use(middleware.RequireRole(cfg.Logger, auth.RoleApprover, auth.RoleAdmin))
			cfg.Submissions.RegisterReview(review)
		})

		protected.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireRole(cfg.Logger, auth.RoleAdmin))
			cfg.MasterData.RegisterAdmin(admin)
			cfg.AuditTrail.Register(admin)
		})
	})

	return r
}
