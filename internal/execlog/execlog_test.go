package execlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adnanhb/flowrag/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Log(ctx, Entry{
		WorkflowID:    "wf-1",
		Query:         "what is RAG?",
		Response:      "retrieval augmented generation",
		ModelUsed:     "openai",
		Success:       true,
		ExecutionTime: 1.25,
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.ID == "" {
		t.Error("expected generated ID")
	}
	if e.WorkflowID != "wf-1" || e.ModelUsed != "openai" || !e.Success {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.ExecutionTime != 1.25 {
		t.Errorf("expected execution time 1.25, got %v", e.ExecutionTime)
	}
	if e.Timestamp.IsZero() {
		t.Error("expected a populated timestamp")
	}
}

func TestLogFailureDefaultsModelUnknown(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Log(ctx, Entry{
		Query:   "broken run",
		Success: false,
		Error:   "no LLM services available",
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ModelUsed != "unknown" {
		t.Errorf("expected model 'unknown', got %q", entries[0].ModelUsed)
	}
	if entries[0].Error != "no LLM services available" {
		t.Errorf("unexpected error field: %q", entries[0].Error)
	}
	if entries[0].WorkflowID != "" {
		t.Errorf("expected empty workflow id, got %q", entries[0].WorkflowID)
	}
}

func TestQueryFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []Entry{
		{WorkflowID: "wf-a", Query: "q1", Success: true, ModelUsed: "openai"},
		{WorkflowID: "wf-a", Query: "q2", Success: false, Error: "boom"},
		{WorkflowID: "wf-b", Query: "q3", Success: true, ModelUsed: "gemini"},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	byWorkflow, err := store.Query(ctx, QueryFilter{WorkflowID: "wf-a"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(byWorkflow) != 2 {
		t.Errorf("expected 2 wf-a entries, got %d", len(byWorkflow))
	}

	succeeded, err := store.Query(ctx, QueryFilter{SuccessOnly: true})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(succeeded) != 2 {
		t.Errorf("expected 2 successful entries, got %d", len(succeeded))
	}

	limited, err := store.Query(ctx, QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 entry with limit, got %d", len(limited))
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}
}

func TestDeleteBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Log(ctx, Entry{Query: "old", Success: true}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	deleted, err := store.DeleteBefore(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty table, got %d", n)
	}
}

func TestExecutionLogRoutes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, e := range []Entry{
		{WorkflowID: "wf-a", Query: "q1", Success: true, ModelUsed: "openai"},
		{WorkflowID: "wf-b", Query: "q2", Success: false, Error: "boom"},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)
	srv := httptest.NewServer(r)
	defer srv.Close()

	decode := func(t *testing.T, url string) []Entry {
		t.Helper()
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", url, resp.StatusCode)
		}
		var body struct {
			Logs []Entry `json:"logs"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		return body.Logs
	}

	all := decode(t, srv.URL+"/api/workflow/execution-logs")
	if len(all) != 2 {
		t.Errorf("expected 2 logs, got %d", len(all))
	}

	forB := decode(t, srv.URL+"/api/workflow/execution-logs/wf-b")
	if len(forB) != 1 || forB[0].WorkflowID != "wf-b" {
		t.Errorf("unexpected wf-b logs: %+v", forB)
	}

	none := decode(t, srv.URL+"/api/workflow/execution-logs/missing")
	if len(none) != 0 {
		t.Errorf("expected empty list for unknown workflow, got %+v", none)
	}
}
