package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"riskgate/internal/masterdata"
	"riskgate/internal/masterdata/service"
	"riskgate/internal/masterdata/store"
	"riskgate/pkg/platform/audit"
)

type noopAuditor struct{}

func (noopAuditor) Emit(context.Context, audit.Event) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := store.NewMemory()
	if err := store.Seed(context.Background(), mem); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := service.New(mem, noopAuditor{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	h.Register(r)
	r.Route("/admin", func(admin chi.Router) {
		h.RegisterAdmin(admin)
	})
	return httptest.NewServer(r)
}

func TestGetAllCatalogs(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/master-data")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var all map[string][]masterdata.Entry
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 catalogs, got %d", len(all))
	}
	if len(all["country"]) == 0 {
		t.Fatalf("expected seeded countries")
	}
}

func TestListCatalogFilteredByBand(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/master-data/country?band=NoGo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var entries []masterdata.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("expected 12 prohibited countries, got %d", len(entries))
	}
}

func TestListUnknownCatalog(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/master-data/vehicles")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListRejectsUnknownBand(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/master-data/country?band=Extreme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpsertEntry(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	body := `{"key":"Crypto Exchange","riskLevel":"High"}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/admin/master-data/business", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var entry masterdata.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Key != "Crypto Exchange" || string(entry.Band) != "High" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestUpsertRejectsBadBand(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	body := `{"key":"Crypto Exchange","riskLevel":"Severe"}`
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/admin/master-data/business", strings.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteEntry(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	target := srv.URL + "/admin/master-data/business?key=" + url.QueryEscape("Agriculture/Fishing")
	req, _ := http.NewRequest(http.MethodDelete, target, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// Second delete reports not found.
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
