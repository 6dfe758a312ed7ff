package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"riskgate/internal/auth"
	"riskgate/pkg/platform/sentinel"
)

// Postgres stores users in the users table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Create(ctx context.Context, user *auth.User) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on the email index.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *Postgres) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return p.get(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`,
		strings.ToLower(email))
}

func (p *Postgres) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return p.get(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`, id)
}

func (p *Postgres) get(ctx context.Context, query string, arg any) (*auth.User, error) {
	var user auth.User
	err := p.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
