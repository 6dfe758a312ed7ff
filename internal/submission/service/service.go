// Package service implements the submission lifecycle: create with an
// automatic assessment, role-scoped reads, approver overrides and
// reassessment.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"riskgate/internal/assessment"
	"riskgate/internal/auth"
	"riskgate/internal/submission"
	"riskgate/internal/submission/store"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/audit"
	"riskgate/pkg/platform/sentinel"
	"riskgate/pkg/requestcontext"
)

// Engine runs risk assessments. Satisfied by *assessment.Engine.
type Engine interface {
	Assess(ctx context.Context, subject assessment.Subject) (*assessment.Result, error)
}

// Auditor records the compliance trail. Emit is fail-closed; when it
// errors the surrounding operation must fail too.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	engine  Engine
	store   store.Store
	auditor Auditor
	logger  *slog.Logger
}

func New(engine Engine, s store.Store, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{engine: engine, store: s, auditor: auditor, logger: logger}
}

// Create assesses the subject and persists the submission for the
// authenticated user. The engine's reasons become the stored justification.
func (s *Service) Create(ctx context.Context, subject assessment.Subject) (*submission.Submission, error) {
	ownerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Assess(ctx, subject)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sub := &submission.Submission{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Subject:         subject,
		CalculatedScore: result.Score,
		SystemBand:      result.FinalBand,
		FinalBand:       result.FinalBand,
		Method:          result.Method,
		Justification:   strings.Join(result.Reasons, "; "),
		Status:          submission.StatusPending,
		ParameterScores: result.ParameterScores,
		StopReasons:     result.StopReasons,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionSubmissionCreated,
		ActorID:   ownerID.String(),
		SubjectID: sub.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
		Detail: map[string]string{
			"band":   string(sub.SystemBand),
			"score":  strconv.FormatFloat(sub.CalculatedScore, 'f', 2, 64),
			"method": string(sub.Method),
		},
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "submission created",
		"submission_id", sub.ID,
		"owner_id", ownerID,
		"band", sub.SystemBand,
		"method", sub.Method,
	)
	return sub, nil
}

// Get returns a submission. Users only see their own; reviewers see all.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "submission %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	if !auth.CanReview(requestcontext.Role(ctx)) && sub.OwnerID.String() != requestcontext.UserID(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "submission belongs to another user")
	}
	return sub, nil
}

// List returns submissions visible to the caller: all of them for
// reviewers, only the caller's own otherwise.
func (s *Service) List(ctx context.Context) ([]*submission.Submission, error) {
	if auth.CanReview(requestcontext.Role(ctx)) {
		subs, err := s.store.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		return subs, nil
	}

	ownerID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// Override replaces the final band with an approver's decision. The system
// band stays untouched so the original engine outcome remains auditable.
func (s *Service) Override(ctx context.Context, id uuid.UUID, band assessment.RiskBand, justification string, status submission.Status) (*submission.Submission, error) {
	if !assessment.ValidBand(string(band)) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown risk band %q", band)
	}
	if justification == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "override requires a justification")
	}
	if status == "" {
		status = submission.StatusApproved
	}
	if !submission.ValidStatus(string(status)) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", status)
	}

	sub, err := s.store.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "submission %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	actor := requestcontext.UserID(ctx)
	previous := sub.FinalBand
	sub.FinalBand = band
	sub.Justification = fmt.Sprintf("Manual override by approver (%s): %s", actor, justification)
	sub.Status = status
	sub.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionSubmissionOverridden,
		ActorID:   actor,
		SubjectID: sub.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
		Detail: map[string]string{
			"from":   string(previous),
			"to":     string(band),
			"status": string(status),
		},
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "submission overridden",
		"submission_id", sub.ID,
		"actor", actor,
		"from", previous,
		"to", band,
	)
	return sub, nil
}

// Reassess re-runs the engine against the stored subject, e.g. after master
// data changes. Both the system and final bands are replaced by the fresh
// outcome; any manual override is superseded.
func (s *Service) Reassess(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "submission %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	result, err := s.engine.Assess(ctx, sub.Subject)
	if err != nil {
		return nil, err
	}

	previous := sub.FinalBand
	sub.CalculatedScore = result.Score
	sub.SystemBand = result.FinalBand
	sub.FinalBand = result.FinalBand
	sub.Method = result.Method
	sub.Justification = strings.Join(result.Reasons, "; ")
	sub.ParameterScores = result.ParameterScores
	sub.StopReasons = result.StopReasons
	sub.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionSubmissionReassessed,
		ActorID:   requestcontext.UserID(ctx),
		SubjectID: sub.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
		Detail: map[string]string{
			"from": string(previous),
			"to":   string(sub.FinalBand),
		},
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	raw := requestcontext.UserID(ctx)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "missing or malformed user identity")
	}
	return id, nil
}
