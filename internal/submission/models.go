// Package submission manages persisted onboarding assessments and their
// review lifecycle.
package submission

import (
	"time"

	"github.com/google/uuid"

	"riskgate/internal/assessment"
)

// Status tracks the review state of a submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatus reports whether s names a known status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission is one assessed onboarding record. SystemBand is what the
// engine produced and never changes after creation; FinalBand starts equal
// to it and moves only through approver overrides. The pair preserves the
// before/after of every manual decision.
type Submission struct {
	ID              uuid.UUID                   `json:"id"`
	OwnerID         uuid.UUID                   `json:"ownerId"`
	Subject         assessment.Subject          `json:"subject"`
	CalculatedScore float64                     `json:"calculatedScore"`
	SystemBand      assessment.RiskBand         `json:"systemRating"`
	FinalBand       assessment.RiskBand         `json:"finalRating"`
	Method          assessment.Method           `json:"calculationMethod"`
	Justification   string                      `json:"justification"`
	Status          Status                      `json:"status"`
	ParameterScores []assessment.ParameterScore `json:"parameterScores"`
	StopReasons     []string                    `json:"stopReasons,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}
