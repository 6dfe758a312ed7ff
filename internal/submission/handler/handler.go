// Package handler exposes the submission lifecycle over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"riskgate/internal/assessment"
	"riskgate/internal/submission"
	"riskgate/internal/submission/service"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/httputil"
	"riskgate/pkg/requestcontext"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the submission routes available to every authenticated
// user.
func (h *Handler) Register(r chi.Router) {
	r.Post("/submissions", h.Create)
	r.Get("/submissions", h.List)
	r.Get("/submissions/{id}", h.Get)
}

// RegisterReview mounts the review routes. The router is expected to guard
// these with the approver or admin role.
func (h *Handler) RegisterReview(r chi.Router) {
	r.Post("/submissions/{id}/override", h.Override)
	r.Post("/submissions/{id}/reassess", h.Reassess)
}

type overrideRequest struct {
	FinalRating   string `json:"finalRating"`
	Justification string `json:"justification"`
	Status        string `json:"status,omitempty"`
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "submission id must be a UUID")
	}
	return id, nil
}

// Create handles POST /submissions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	subject, ok := httputil.DecodeAndPrepare[assessment.Subject](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.Create(ctx, subject)
	if err != nil {
		h.logger.ErrorContext(ctx, "create submission failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

// List handles GET /submissions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subs, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list submissions failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if subs == nil {
		subs = []*submission.Submission{}
	}
	httputil.WriteJSON(w, http.StatusOK, subs)
}

// Get handles GET /submissions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sub, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// Override handles POST /submissions/{id}/override.
func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[overrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.Override(ctx, id,
		assessment.RiskBand(req.FinalRating), req.Justification, submission.Status(req.Status))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// Reassess handles POST /submissions/{id}/reassess.
func (h *Handler) Reassess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := idParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sub, err := h.service.Reassess(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}
