package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"riskgate/internal/assessment"
	"riskgate/internal/submission"
	"riskgate/pkg/platform/sentinel"
)

// Postgres stores submissions in the submissions table. The subject and the
// parameter score trail are kept as JSONB so reassessment can replay the
// original input exactly.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const submissionColumns = `id, owner_id, submission_type, subject, calculated_score,
	system_band, final_band, method, justification, status,
	parameter_scores, stop_reasons, created_at, updated_at`

func (p *Postgres) Create(ctx context.Context, sub *submission.Submission) error {
	subject, scores, stops, err := marshalPayload(sub)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO submissions (`+submissionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sub.ID, sub.OwnerID, string(sub.Subject.SubmissionType), subject, sub.CalculatedScore,
		string(sub.SystemBand), string(sub.FinalBand), string(sub.Method), sub.Justification, string(sub.Status),
		scores, stops, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (p *Postgres) ListAll(ctx context.Context) ([]*submission.Submission, error) {
	return p.list(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY created_at DESC`)
}

func (p *Postgres) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*submission.Submission, error) {
	return p.list(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID)
}

func (p *Postgres) list(ctx context.Context, query string, args ...any) ([]*submission.Submission, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*submission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

func (p *Postgres) Update(ctx context.Context, sub *submission.Submission) error {
	_, scores, stops, err := marshalPayload(sub)
	if err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx,
		`UPDATE submissions
		 SET calculated_score = $2, system_band = $3, final_band = $4, method = $5,
		     justification = $6, status = $7, parameter_scores = $8, stop_reasons = $9,
		     updated_at = $10
		 WHERE id = $1`,
		sub.ID, sub.CalculatedScore, string(sub.SystemBand), string(sub.FinalBand), string(sub.Method),
		sub.Justification, string(sub.Status), scores, stops, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func marshalPayload(sub *submission.Submission) (subject, scores, stops []byte, err error) {
	subject, err = json.Marshal(sub.Subject)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal subject: %w", err)
	}
	scores, err = json.Marshal(sub.ParameterScores)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal parameter scores: %w", err)
	}
	if sub.StopReasons == nil {
		stops = []byte("[]")
	} else if stops, err = json.Marshal(sub.StopReasons); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal stop reasons: %w", err)
	}
	return subject, scores, stops, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*submission.Submission, error) {
	var sub submission.Submission
	var submissionType, systemBand, finalBand, method, status string
	var subject, scores, stops []byte

	err := row.Scan(
		&sub.ID, &sub.OwnerID, &submissionType, &subject, &sub.CalculatedScore,
		&systemBand, &finalBand, &method, &sub.Justification, &status,
		&scores, &stops, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(subject, &sub.Subject); err != nil {
		return nil, fmt.Errorf("unmarshal subject: %w", err)
	}
	if err := json.Unmarshal(scores, &sub.ParameterScores); err != nil {
		return nil, fmt.Errorf("unmarshal parameter scores: %w", err)
	}
	if err := json.Unmarshal(stops, &sub.StopReasons); err != nil {
		return nil, fmt.Errorf("unmarshal stop reasons: %w", err)
	}

	sub.SystemBand = assessment.RiskBand(systemBand)
	sub.FinalBand = assessment.RiskBand(finalBand)
	sub.Method = assessment.Method(method)
	sub.Status = submission.Status(status)
	return &sub, nil
}
