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

	"riskgate/internal/assessment"
	dErrors "riskgate/pkg/domain-errors"
)

type stubEvaluator struct {
	result *assessment.Result
	err    error
	got    assessment.Subject
}

func (s *stubEvaluator) Assess(_ context.Context, subject assessment.Subject) (*assessment.Result, error) {
	s.got = subject
	return s.result, s.err
}

func newTestServer(eval *stubEvaluator) *httptest.Server {
	h := New(eval, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return httptest.NewServer(r)
}

func TestEvaluateReturnsResult(t *testing.T) {
	eval := &stubEvaluator{result: &assessment.Result{
		FinalBand:       assessment.BandMedium,
		Score:           1.67,
		Reasons:         []string{"Nationality: India (Medium Risk)"},
		ParameterScores: []assessment.ParameterScore{},
		Method:          assessment.MethodWeightedAverage,
	}}
	srv := newTestServer(eval)
	defer srv.Close()

	body := `{"submissionType":"individual","nationality":"India"}`
	resp, err := http.Post(srv.URL+"/assessments/evaluate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if eval.got.Nationality != "India" {
		t.Fatalf("expected decoded nationality, got %q", eval.got.Nationality)
	}

	var result assessment.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.FinalBand != assessment.BandMedium {
		t.Fatalf("expected Medium, got %s", result.FinalBand)
	}
	if result.Score != 1.67 {
		t.Fatalf("expected score 1.67, got %v", result.Score)
	}
}

func TestEvaluateRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(&stubEvaluator{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/assessments/evaluate", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestEvaluateMapsDomainError(t *testing.T) {
	eval := &stubEvaluator{err: dErrors.New(dErrors.CodeInvalidInput, "invalid submission type")}
	srv := newTestServer(eval)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/assessments/evaluate", "application/json", strings.NewReader(`{"submissionType":"trust"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var envelope struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error != "invalid_input" {
		t.Fatalf("expected invalid_input, got %q", envelope.Error)
	}
}
