// Package service implements master data catalog management. It also serves
// as the catalog lookup port of the assessment engine.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"riskgate/internal/assessment"
	"riskgate/internal/masterdata"
	"riskgate/internal/masterdata/store"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/audit"
	"riskgate/pkg/requestcontext"
)

// Auditor records the compliance trail. Catalog mutations silently change
// every future assessment, so Emit is fail-closed: when it errors the
// mutation must fail too.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages catalog entries.
type Service struct {
	store   store.Store
	auditor Auditor
	logger  *slog.Logger
}

var _ assessment.ReferenceLookup = (*Service)(nil)

func New(s store.Store, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: s, auditor: auditor, logger: logger}
}

// Lookup returns the entry for a key. Missing entries surface as
// sentinel.ErrNotFound so callers can distinguish "unclassified value"
// from store failures.
func (s *Service) Lookup(ctx context.Context, catalog masterdata.Catalog, key string) (masterdata.Entry, error) {
	return s.store.Get(ctx, catalog, key)
}

// List returns every entry of a catalog.
func (s *Service) List(ctx context.Context, catalog masterdata.Catalog) ([]masterdata.Entry, error) {
	return s.store.List(ctx, catalog)
}

// ListByBand returns the catalog entries carrying the given band.
func (s *Service) ListByBand(ctx context.Context, catalog masterdata.Catalog, band assessment.RiskBand) ([]masterdata.Entry, error) {
	entries, err := s.store.List(ctx, catalog)
	if err != nil {
		return nil, err
	}
	filtered := make([]masterdata.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Band == band {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// GetAll fetches every catalog in parallel. Used by the UI bootstrap
// endpoint which needs the complete reference data set at once.
func (s *Service) GetAll(ctx context.Context) (map[masterdata.Catalog][]masterdata.Entry, error) {
	results := make([][]masterdata.Entry, len(masterdata.Catalogs))

	g, gctx := errgroup.WithContext(ctx)
	for i, catalog := range masterdata.Catalogs {
		g.Go(func() error {
			entries, err := s.store.List(gctx, catalog)
			if err != nil {
				return fmt.Errorf("list %s catalog: %w", catalog, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make(map[masterdata.Catalog][]masterdata.Entry, len(masterdata.Catalogs))
	for i, catalog := range masterdata.Catalogs {
		all[catalog] = results[i]
	}
	return all, nil
}

// Upsert creates or replaces a catalog entry. The band must be a known
// risk band.
func (s *Service) Upsert(ctx context.Context, catalog masterdata.Catalog, key string, band assessment.RiskBand) (masterdata.Entry, error) {
	if key == "" {
		return masterdata.Entry{}, dErrors.New(dErrors.CodeBadRequest, "catalog key must not be empty")
	}
	if !assessment.ValidBand(string(band)) {
		return masterdata.Entry{}, dErrors.Newf(dErrors.CodeBadRequest, "unknown risk band %q", band)
	}

	entry := masterdata.Entry{
		Key:       key,
		Band:      band,
		UpdatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Upsert(ctx, catalog, entry); err != nil {
		return masterdata.Entry{}, fmt.Errorf("upsert catalog entry: %w", err)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionCatalogUpserted,
		ActorID:   requestcontext.UserID(ctx),
		SubjectID: string(catalog),
		RequestID: requestcontext.RequestID(ctx),
		Detail: map[string]string{
			"key":  key,
			"band": string(band),
		},
	}); err != nil {
		return masterdata.Entry{}, err
	}

	s.logger.InfoContext(ctx, "catalog entry upserted",
		"catalog", catalog,
		"key", key,
		"band", band,
		"actor", requestcontext.UserID(ctx),
	)
	return entry, nil
}

// Delete removes a catalog entry.
func (s *Service) Delete(ctx context.Context, catalog masterdata.Catalog, key string) error {
	if err := s.store.Delete(ctx, catalog, key); err != nil {
		return err
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionCatalogDeleted,
		ActorID:   requestcontext.UserID(ctx),
		SubjectID: string(catalog),
		RequestID: requestcontext.RequestID(ctx),
		Detail:    map[string]string{"key": key},
	}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "catalog entry deleted",
		"catalog", catalog,
		"key", key,
		"actor", requestcontext.UserID(ctx),
	)
	return nil
}

// CountryBand implements assessment.ReferenceLookup.
func (s *Service) CountryBand(ctx context.Context, name string) (assessment.RiskBand, error) {
	return s.band(ctx, masterdata.CatalogCountry, name)
}

// EmploymentBand implements assessment.ReferenceLookup.
func (s *Service) EmploymentBand(ctx context.Context, name string) (assessment.RiskBand, error) {
	return s.band(ctx, masterdata.CatalogEmployment, name)
}

// ProductBand implements assessment.ReferenceLookup.
func (s *Service) ProductBand(ctx context.Context, name string) (assessment.RiskBand, error) {
	return s.band(ctx, masterdata.CatalogProduct, name)
}

// BusinessBand implements assessment.ReferenceLookup.
func (s *Service) BusinessBand(ctx context.Context, name string) (assessment.RiskBand, error) {
	return s.band(ctx, masterdata.CatalogBusiness, name)
}

func (s *Service) band(ctx context.Context, catalog masterdata.Catalog, name string) (assessment.RiskBand, error) {
	entry, err := s.store.Get(ctx, catalog, name)
	if err != nil {
		return "", err
	}
	return entry.Band, nil
}
