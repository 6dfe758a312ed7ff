package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"riskgate/pkg/platform/audit"
	auditmemory "riskgate/pkg/platform/audit/store/memory"
)

func newTestServer(t *testing.T, store audit.Store) *httptest.Server {
	t.Helper()
	h := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Route("/admin", func(admin chi.Router) {
		h.Register(admin)
	})
	return httptest.NewServer(r)
}

func seedEvents(t *testing.T, store audit.Store, n int) {
	t.Helper()
	pub := audit.NewPublisher(store)
	for i := 0; i < n; i++ {
		err := pub.Emit(context.Background(), audit.Event{
			Action:  audit.ActionSubmissionCreated,
			ActorID: fmt.Sprintf("actor-%d", i),
		})
		if err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
}

func TestListRecentReturnsTrail(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	seedEvents(t, store, 3)
	srv := newTestServer(t, store)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/audit-events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var events []audit.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].ActorID != "actor-0" {
		t.Fatalf("expected oldest event first, got %+v", events[0])
	}
}

func TestListRecentHonorsLimit(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	seedEvents(t, store, 5)
	srv := newTestServer(t, store)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/audit-events?limit=2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var events []audit.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// The window holds the most recent events, oldest first.
	if events[0].ActorID != "actor-3" || events[1].ActorID != "actor-4" {
		t.Fatalf("unexpected window: %+v", events)
	}
}

func TestListRecentRejectsBadLimit(t *testing.T) {
	srv := newTestServer(t, auditmemory.NewInMemoryStore())
	defer srv.Close()

	for _, limit := range []string{"abc", "0", "-1"} {
		resp, err := http.Get(srv.URL + "/admin/audit-events?limit=" + limit)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("limit %q: expected 400, got %d", limit, resp.StatusCode)
		}
	}
}

func TestListRecentEmptyTrail(t *testing.T) {
	srv := newTestServer(t, auditmemory.NewInMemoryStore())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/audit-events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var events []audit.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty trail, got %d events", len(events))
	}
}
