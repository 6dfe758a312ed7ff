package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskgate/internal/assessment"
	"riskgate/internal/auth"
	"riskgate/internal/submission"
	"riskgate/internal/submission/store"
	dErrors "riskgate/pkg/domain-errors"
	"riskgate/pkg/platform/audit"
	"riskgate/pkg/requestcontext"
)

type stubEngine struct {
	result *assessment.Result
	err    error
}

func (e *stubEngine) Assess(_ context.Context, _ assessment.Subject) (*assessment.Result, error) {
	return e.result, e.err
}

type recordingAuditor struct {
	events []audit.Event
	err    error
}

func (a *recordingAuditor) Emit(_ context.Context, event audit.Event) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, event)
	return nil
}

func lowResult() *assessment.Result {
	return &assessment.Result{
		FinalBand: assessment.BandLow,
		Score:     1.0,
		Reasons:   []string{"Nationality: Germany (Low Risk)", "Employment Type: Salaried (Low Risk)"},
		ParameterScores: []assessment.ParameterScore{
			{Name: "Nationality", Value: "Germany", Band: assessment.BandLow, Score: 1, Weight: 1},
		},
		Method: assessment.MethodWeightedAverage,
	}
}

func userCtx(userID uuid.UUID, role string) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), userID.String())
	return requestcontext.WithRole(ctx, role)
}

func newService(engine Engine, auditor Auditor) (*Service, *store.Memory) {
	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(engine, mem, auditor, logger), mem
}

func TestCreatePersistsAndAudits(t *testing.T) {
	auditor := &recordingAuditor{}
	svc, _ := newService(&stubEngine{result: lowResult()}, auditor)
	owner := uuid.New()

	sub, err := svc.Create(userCtx(owner, auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)

	assert.Equal(t, owner, sub.OwnerID)
	assert.Equal(t, assessment.BandLow, sub.SystemBand)
	assert.Equal(t, assessment.BandLow, sub.FinalBand)
	assert.Equal(t, submission.StatusPending, sub.Status)
	assert.Equal(t, "Nationality: Germany (Low Risk); Employment Type: Salaried (Low Risk)", sub.Justification)

	require.Len(t, auditor.events, 1)
	assert.Equal(t, audit.ActionSubmissionCreated, auditor.events[0].Action)
	assert.Equal(t, owner.String(), auditor.events[0].ActorID)
	assert.Equal(t, "1.00", auditor.events[0].Detail["score"])
}

func TestCreateFailsClosedWhenAuditFails(t *testing.T) {
	auditor := &recordingAuditor{err: errors.New("kafka down")}
	svc, _ := newService(&stubEngine{result: lowResult()}, auditor)

	_, err := svc.Create(userCtx(uuid.New(), auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.Error(t, err)
	assert.ErrorContains(t, err, "kafka down")
}

func TestCreateRequiresIdentity(t *testing.T) {
	svc, _ := newService(&stubEngine{result: lowResult()}, &recordingAuditor{})

	_, err := svc.Create(context.Background(), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestCreatePropagatesEngineError(t *testing.T) {
	svc, _ := newService(&stubEngine{err: dErrors.New(dErrors.CodeInvalidInput, "invalid submission type")}, &recordingAuditor{})

	_, err := svc.Create(userCtx(uuid.New(), auth.RoleUser), assessment.Subject{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestGetEnforcesOwnership(t *testing.T) {
	auditor := &recordingAuditor{}
	svc, _ := newService(&stubEngine{result: lowResult()}, auditor)
	owner := uuid.New()

	sub, err := svc.Create(userCtx(owner, auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)

	// Owner reads fine.
	_, err = svc.Get(userCtx(owner, auth.RoleUser), sub.ID)
	require.NoError(t, err)

	// A different plain user is rejected.
	_, err = svc.Get(userCtx(uuid.New(), auth.RoleUser), sub.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	// An approver can read anyone's.
	_, err = svc.Get(userCtx(uuid.New(), auth.RoleApprover), sub.ID)
	require.NoError(t, err)
}

func TestGetUnknownID(t *testing.T) {
	svc, _ := newService(&stubEngine{result: lowResult()}, &recordingAuditor{})

	_, err := svc.Get(userCtx(uuid.New(), auth.RoleApprover), uuid.New())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListIsRoleScoped(t *testing.T) {
	auditor := &recordingAuditor{}
	svc, _ := newService(&stubEngine{result: lowResult()}, auditor)
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Create(userCtx(alice, auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)
	_, err = svc.Create(userCtx(bob, auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)

	mine, err := svc.List(userCtx(alice, auth.RoleUser))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice, mine[0].OwnerID)

	all, err := svc.List(userCtx(uuid.New(), auth.RoleApprover))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOverrideReplacesFinalBandOnly(t *testing.T) {
	auditor := &recordingAuditor{}
	svc, _ := newService(&stubEngine{result: lowResult()}, auditor)
	approver := uuid.New()

	sub, err := svc.Create(userCtx(uuid.New(), auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)

	updated, err := svc.Override(userCtx(approver, auth.RoleApprover), sub.ID, assessment.BandHigh, "adverse media findings", "")
	require.NoError(t, err)

	assert.Equal(t, assessment.BandLow, updated.SystemBand)
	assert.Equal(t, assessment.BandHigh, updated.FinalBand)
	assert.Equal(t, submission.StatusApproved, updated.Status)
	assert.Equal(t, "Manual override by approver ("+approver.String()+"): adverse media findings", updated.Justification)

	require.Len(t, auditor.events, 2)
	assert.Equal(t, audit.ActionSubmissionOverridden, auditor.events[1].Action)
	assert.Equal(t, "Low", auditor.events[1].Detail["from"])
	assert.Equal(t, "High", auditor.events[1].Detail["to"])
}

func TestOverrideValidatesInput(t *testing.T) {
	svc, _ := newService(&stubEngine{result: lowResult()}, &recordingAuditor{})
	ctx := userCtx(uuid.New(), auth.RoleApprover)

	sub, err := svc.Create(userCtx(uuid.New(), auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)

	_, err = svc.Override(ctx, sub.ID, "Extreme", "x", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = svc.Override(ctx, sub.ID, assessment.BandHigh, "", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = svc.Override(ctx, sub.ID, assessment.BandHigh, "x", "archived")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestReassessSupersedesOverride(t *testing.T) {
	auditor := &recordingAuditor{}
	engine := &stubEngine{result: lowResult()}
	svc, _ := newService(engine, auditor)

	sub, err := svc.Create(userCtx(uuid.New(), auth.RoleUser), assessment.Subject{SubmissionType: assessment.TypeIndividual})
	require.NoError(t, err)

	_, err = svc.Override(userCtx(uuid.New(), auth.RoleApprover), sub.ID, assessment.BandHigh, "caution", "")
	require.NoError(t, err)

	// Master data changed; the engine now classifies the subject NoGo.
	engine.result = &assessment.Result{
		FinalBand:       assessment.BandNoGo,
		Score:           100,
		Reasons:         []string{"NoGo country detected: Syria"},
		StopReasons:     []string{"NoGo country detected: Syria"},
		ParameterScores: []assessment.ParameterScore{},
		Method:          assessment.MethodImmediateStop,
	}

	updated, err := svc.Reassess(userCtx(uuid.New(), auth.RoleApprover), sub.ID)
	require.NoError(t, err)

	assert.Equal(t, assessment.BandNoGo, updated.SystemBand)
	assert.Equal(t, assessment.BandNoGo, updated.FinalBand)
	assert.Equal(t, 100.0, updated.CalculatedScore)
	assert.Equal(t, assessment.MethodImmediateStop, updated.Method)
	assert.Equal(t, "NoGo country detected: Syria", updated.Justification)
	assert.Equal(t, []string{"NoGo country detected: Syria"}, updated.StopReasons)
}
