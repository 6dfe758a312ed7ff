// Package handler exposes the assessment engine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"riskgate/internal/assessment"
	"riskgate/pkg/platform/httputil"
	"riskgate/pkg/requestcontext"
)

// Evaluator runs a single assessment. Satisfied by *assessment.Engine.
type Evaluator interface {
	Assess(ctx context.Context, subject assessment.Subject) (*assessment.Result, error)
}

// Handler serves ad-hoc assessment evaluations. Evaluations here are
// stateless; nothing is persisted and no submission record is created.
type Handler struct {
	engine Evaluator
	logger *slog.Logger
}

func New(engine Evaluator, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Register mounts the assessment routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/assessments/evaluate", h.Evaluate)
}

// Evaluate handles POST /assessments/evaluate.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	subject, ok := httputil.DecodeAndPrepare[assessment.Subject](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.engine.Assess(ctx, subject)
	if err != nil {
		h.logger.ErrorContext(ctx, "assessment failed",
			"request_id", requestID,
			"submission_type", subject.SubmissionType,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
