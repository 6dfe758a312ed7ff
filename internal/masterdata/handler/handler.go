// Package handler exposes master data catalogs over HTTP.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"riskgate/internal/assessment"
	"riskgate/internal/masterdata"
	"riskgate/internal/masterdata/service"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/httputil"
	"riskgate/pkg/platform/sentinel"
	"riskgate/pkg/requestcontext"
)

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the read-only catalog routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/master-data", h.GetAll)
	r.Get("/master-data/{catalog}", h.List)
}

// RegisterAdmin mounts the catalog mutation routes. The router is expected
// to guard these with the admin role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/master-data/{catalog}", h.Upsert)
	r.Delete("/master-data/{catalog}", h.Delete)
}

type upsertRequest struct {
	Key  string `json:"key"`
	Band string `json:"riskLevel"`
}

func catalogParam(r *http.Request) (masterdata.Catalog, error) {
	raw := chi.URLParam(r, "catalog")
	if !masterdata.ValidCatalog(raw) {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown catalog %q", raw)
	}
	return masterdata.Catalog(raw), nil
}

// GetAll handles GET /master-data.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	all, err := h.service.GetAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch all catalogs failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, all)
}

// List handles GET /master-data/{catalog}. An optional band query parameter
// filters the listing.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := catalogParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var entries []masterdata.Entry
	if band := r.URL.Query().Get("band"); band != "" {
		if !assessment.ValidBand(band) {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown risk band %q", band))
			return
		}
		entries, err = h.service.ListByBand(ctx, catalog, assessment.RiskBand(band))
	} else {
		entries, err = h.service.List(ctx, catalog)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "list catalog failed",
			"request_id", requestcontext.RequestID(ctx),
			"catalog", catalog,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []masterdata.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

// Upsert handles PUT /admin/master-data/{catalog}.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	catalog, err := catalogParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[upsertRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entry, err := h.service.Upsert(ctx, catalog, req.Key, assessment.RiskBand(req.Band))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /admin/master-data/{catalog}?key=<value>. The key
// travels as a query parameter because catalog values may contain slashes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := catalogParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "key query parameter is required"))
		return
	}

	if err := h.service.Delete(ctx, catalog, key); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "no %s entry for %q", catalog, key))
			return
		}
		h.logger.ErrorContext(ctx, "delete catalog entry failed",
			"request_id", requestcontext.RequestID(ctx),
			"catalog", catalog,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
