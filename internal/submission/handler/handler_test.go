package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"riskgate/internal/assessment"
	"riskgate/internal/auth"
	"riskgate/internal/submission"
	"riskgate/internal/submission/service"
	"riskgate/internal/submission/store"
	"riskgate/pkg/platform/audit"
	"riskgate/pkg/requestcontext"
)

type stubEngine struct{ result *assessment.Result }

func (e *stubEngine) Assess(_ context.Context, _ assessment.Subject) (*assessment.Result, error) {
	return e.result, nil
}

type noopAuditor struct{}

func (noopAuditor) Emit(_ context.Context, _ audit.Event) error { return nil }

// identityFromHeaders stamps test identity into the request context the way
// the auth middleware does in production.
func identityFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithUserID(r.Context(), r.Header.Get("X-Test-User"))
		ctx = requestcontext.WithRole(ctx, r.Header.Get("X-Test-Role"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine := &stubEngine{result: &assessment.Result{
		FinalBand:       assessment.BandMedium,
		Score:           2.0,
		Reasons:         []string{"Nationality: India (Medium Risk)"},
		ParameterScores: []assessment.ParameterScore{},
		Method:          assessment.MethodWeightedAverage,
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(engine, store.NewMemory(), noopAuditor{}, logger)
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Use(identityFromHeaders)
	h.Register(r)
	h.RegisterReview(r)
	return httptest.NewServer(r)
}

func doRequest(t *testing.T, method, target, body string, userID uuid.UUID, role string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Test-User", userID.String())
	req.Header.Set("X-Test-Role", role)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func createSubmission(t *testing.T, srv *httptest.Server, owner uuid.UUID) submission.Submission {
	t.Helper()
	resp := doRequest(t, http.MethodPost, srv.URL+"/submissions",
		`{"submissionType":"individual","nationality":"India"}`, owner, auth.RoleUser)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var sub submission.Submission
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	return sub
}

func TestCreateAndGetSubmission(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	owner := uuid.New()

	sub := createSubmission(t, srv, owner)
	if sub.SystemBand != assessment.BandMedium {
		t.Fatalf("expected Medium system band, got %s", sub.SystemBand)
	}
	if sub.Status != submission.StatusPending {
		t.Fatalf("expected pending status, got %s", sub.Status)
	}

	resp := doRequest(t, http.MethodGet, srv.URL+"/submissions/"+sub.ID.String(), "", owner, auth.RoleUser)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGetForeignSubmissionForbidden(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	sub := createSubmission(t, srv, uuid.New())

	resp := doRequest(t, http.MethodGet, srv.URL+"/submissions/"+sub.ID.String(), "", uuid.New(), auth.RoleUser)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestListScopedToOwner(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	alice := uuid.New()

	createSubmission(t, srv, alice)
	createSubmission(t, srv, uuid.New())

	resp := doRequest(t, http.MethodGet, srv.URL+"/submissions", "", alice, auth.RoleUser)
	defer resp.Body.Close()

	var subs []submission.Submission
	if err := json.NewDecoder(resp.Body).Decode(&subs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission for owner, got %d", len(subs))
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/submissions", "", uuid.New(), auth.RoleApprover)
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&subs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions for approver, got %d", len(subs))
	}
}

func TestOverrideSubmission(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	approver := uuid.New()

	sub := createSubmission(t, srv, uuid.New())

	resp := doRequest(t, http.MethodPost, srv.URL+"/submissions/"+sub.ID.String()+"/override",
		`{"finalRating":"High","justification":"adverse media findings"}`, approver, auth.RoleApprover)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated submission.Submission
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.FinalBand != assessment.BandHigh {
		t.Fatalf("expected High final band, got %s", updated.FinalBand)
	}
	if updated.SystemBand != assessment.BandMedium {
		t.Fatalf("system band must not change, got %s", updated.SystemBand)
	}
	if !strings.Contains(updated.Justification, "Manual override by approver") {
		t.Fatalf("unexpected justification: %s", updated.Justification)
	}
}

func TestOverrideRejectsUnknownBand(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	sub := createSubmission(t, srv, uuid.New())

	resp := doRequest(t, http.MethodPost, srv.URL+"/submissions/"+sub.ID.String()+"/override",
		`{"finalRating":"Extreme","justification":"x"}`, uuid.New(), auth.RoleApprover)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/submissions/not-a-uuid", "", uuid.New(), auth.RoleUser)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestReassessSubmission(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	sub := createSubmission(t, srv, uuid.New())

	resp := doRequest(t, http.MethodPost, srv.URL+"/submissions/"+sub.ID.String()+"/reassess", "",
		uuid.New(), auth.RoleApprover)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
