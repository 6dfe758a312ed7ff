// Package service implements account registration, login and logout.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"riskgate/internal/auth"
	"riskgate/internal/auth/store"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/audit"
	"riskgate/pkg/platform/sentinel"
	"riskgate/pkg/requestcontext"
)

const minPasswordLength = 8

// TokenIssuer issues and inspects access tokens. Satisfied by
// *jwttoken.JWTService.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, role string, expiresIn time.Duration) (string, error)
	RemainingValidity(tokenString string) (time.Duration, error)
}

// Revoker records token IDs on the revocation list.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Auditor records the compliance trail. Emit is fail-closed.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store    store.Store
	tokens   TokenIssuer
	revoker  Revoker
	auditor  Auditor
	logger   *slog.Logger
	tokenTTL time.Duration
}

func New(s store.Store, tokens TokenIssuer, revoker Revoker, auditor Auditor, logger *slog.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		store:    s,
		tokens:   tokens,
		revoker:  revoker,
		auditor:  auditor,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// Signup registers a new account. An empty role defaults to the plain user
// role; elevated roles are assigned here only so a deployment can bootstrap
// its first approver and admin accounts.
func (s *Service) Signup(ctx context.Context, email, password, role string) (*auth.User, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "password must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = auth.RoleUser
	}
	if !auth.ValidRole(role) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionUserRegistered,
		ActorID:   user.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
		Detail:    map[string]string{"role": role},
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", role)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords produce the same error so the endpoint cannot be used to
// probe for accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, *auth.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionUserLoggedIn,
		ActorID:   user.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the presented token for its remaining validity. With no
// revocation list configured it degrades to a no-op; the token then stays
// valid until expiry.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no token presented")
	}

	if s.revoker != nil {
		ttl, err := s.tokens.RemainingValidity(rawToken)
		if err != nil {
			return err
		}
		if err := s.revoker.Revoke(ctx, jti, ttl); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionUserLoggedOut,
		ActorID:   requestcontext.UserID(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		return err
	}
	return nil
}

// Me returns the authenticated user's account.
func (s *Service) Me(ctx context.Context) (*auth.User, error) {
	id, err := uuid.Parse(requestcontext.UserID(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing or malformed user identity")
	}

	user, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "account no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
