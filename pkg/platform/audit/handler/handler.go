// Package handler exposes the audit trail to administrators.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/audit"
	"riskgate/pkg/platform/httputil"
	"riskgate/pkg/requestcontext"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Handler struct {
	store  audit.Store
	logger *slog.Logger
}

func New(store audit.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts the trail listing. The router is expected to guard it
// with the admin role.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit-events", h.ListRecent)
}

// ListRecent handles GET /admin/audit-events?limit=<n>. Events come back
// oldest first within the window.
func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid limit %q", raw))
			return
		}
		if n > maxLimit {
			n = maxLimit
		}
		limit = n
	}

	events, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list audit events failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}
