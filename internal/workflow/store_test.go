package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/execlog"
	"github.com/adnanhb/flowrag/internal/llm"
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

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	definition := json.RawMessage(`{"nodes":[{"id":"n1","type":"llmEngine"}],"edges":[]}`)
	id, err := store.Save(ctx, "my pipeline", definition)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	wf, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if wf.Name != "my pipeline" {
		t.Errorf("expected name preserved, got %q", wf.Name)
	}
	if !bytes.Equal(wf.Definition, definition) {
		t.Errorf("definition mismatch: %s", wf.Definition)
	}
	if wf.CreatedAt.IsZero() {
		t.Error("expected populated created_at")
	}
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(context.Background(), "bad", json.RawMessage(`{nope`)); err == nil {
		t.Fatal("expected error for invalid definition JSON")
	}
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	def := json.RawMessage(`{"nodes":[],"edges":[]}`)

	idA, err := store.Save(ctx, "a", def)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, "b", def); err != nil {
		t.Fatalf("Save: %v", err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 workflows, got %d", len(items))
	}

	if err := store.Delete(ctx, idA); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, idA); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}

	items, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Name != "b" {
		t.Errorf("unexpected remaining workflows: %+v", items)
	}
}

func newTestRouter(t *testing.T) (*chi.Mux, *Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	provider := &recordingProvider{name: "openai", avail: true, response: "routed answer"}
	engine := NewEngine(&fakeStore{chunks: []string{"ctx"}}, nil, llm.NewPool(nil, provider),
		execlog.NewStore(database), testDefaults(), nil)

	r := chi.NewRouter()
	RegisterRoutes(r, engine, store)
	return r, store
}

func TestRunEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	body := `{"query": "hello", "workflow": {"nodes": [{"id": "n1", "type": "llmEngine"}], "edges": []}}`
	resp, err := http.Post(srv.URL+"/api/workflow/run", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST run: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var result RunResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !result.Success || result.Response != "routed answer" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRunEndpointRequiresQuery(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/workflow/run", "application/json",
		bytes.NewBufferString(`{"workflow": {"nodes": [], "edges": []}}`))
	if err != nil {
		t.Fatalf("POST run: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing query, got %d", resp.StatusCode)
	}
}

func TestWorkflowCRUDEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	client := srv.Client()

	// Save.
	resp, err := client.Post(srv.URL+"/api/workflow/workflows/save", "application/json",
		bytes.NewBufferString(`{"name": "wf", "definition": {"nodes": [], "edges": []}}`))
	if err != nil {
		t.Fatalf("POST save: %v", err)
	}
	var saved saveResponse
	json.NewDecoder(resp.Body).Decode(&saved)
	resp.Body.Close()
	if !saved.Success || saved.ID == "" {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	// List.
	resp, err = client.Get(srv.URL + "/api/workflow/workflows")
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	var listed listResponse
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if !listed.Success || len(listed.Workflows) != 1 {
		t.Fatalf("unexpected list response: %+v", listed)
	}

	// Load.
	resp, err = client.Get(srv.URL + "/api/workflow/workflows/" + saved.ID)
	if err != nil {
		t.Fatalf("GET workflow: %v", err)
	}
	var loaded loadResponse
	json.NewDecoder(resp.Body).Decode(&loaded)
	resp.Body.Close()
	if !loaded.Success || loaded.Name != "wf" {
		t.Fatalf("unexpected load response: %+v", loaded)
	}

	// Load unknown id.
	resp, err = client.Get(srv.URL + "/api/workflow/workflows/nope")
	if err != nil {
		t.Fatalf("GET missing workflow: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	// Delete.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/workflow/workflows/"+saved.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE workflow: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", resp.StatusCode)
	}
}
