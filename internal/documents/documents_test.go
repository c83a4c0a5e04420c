package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/walker"
)

// memStore records upserts and deletes; queries are unused here.
type memStore struct {
	chunks  map[string][]string
	failing bool
}

func newMemStore() *memStore {
	return &memStore{chunks: make(map[string][]string)}
}

func (m *memStore) UpsertDocument(_ context.Context, documentID, _ string, chunks []string) error {
	if m.failing {
		return errors.New("embedding backend down")
	}
	m.chunks[documentID] = chunks
	return nil
}

func (m *memStore) Query(context.Context, string, int) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (m *memStore) DeleteDocument(_ context.Context, documentID string) error {
	delete(m.chunks, documentID)
	return nil
}

func (m *memStore) Persist(context.Context, string) error { return nil }
func (m *memStore) Load(context.Context, string) error    { return nil }

func (m *memStore) Count() int {
	n := 0
	for _, c := range m.chunks {
		n += len(c)
	}
	return n
}

func newTestService(t *testing.T, store vectordb.VectorStore) *Service {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewService(database, store, Options{ChunkSize: 50, ChunkOverlap: 10}, nil)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		input    string
		want     string
		wantErr  bool
	}{
		{
			name:     "plain text passthrough",
			filename: "notes.txt",
			input:    "  hello world  ",
			want:     "hello world",
		},
		{
			name:     "markdown stripped",
			filename: "doc.md",
			input:    "# Title\n\nSome **bold** and [a link](https://example.com).",
			want:     "Title\nSome bold and a link.",
		},
		{
			name:     "code block kept",
			filename: "doc.md",
			input:    "Usage:\n\n```go\nfmt.Println(\"hi\")\n```\n",
			want:     "Usage:\nfmt.Println(\"hi\")",
		},
		{
			name:     "unsupported extension",
			filename: "image.png",
			input:    "data",
			wantErr:  true,
		},
		{
			name:     "invalid utf8",
			filename: "bad.txt",
			input:    "abc\xff\xfe",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.filename, []byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractText: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIngestAndCatalog(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, "guide.txt", []byte(strings.Repeat("knowledge ", 20)))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.ID == "" || doc.ChunkCount == 0 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(store.chunks[doc.ID]) != doc.ChunkCount {
		t.Errorf("store has %d chunks, catalog says %d", len(store.chunks[doc.ID]), doc.ChunkCount)
	}
	if doc.ProcessedAt == nil {
		t.Error("expected processed_at to be set")
	}

	docs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0].Filename != "guide.txt" {
		t.Errorf("unexpected catalog: %+v", docs)
	}
	if docs[0].Content != "" {
		t.Error("List must not include content")
	}

	full, err := svc.GetText(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetText: %v", err)
	}
	if !strings.HasPrefix(full.Content, "knowledge") {
		t.Errorf("content not preserved: %q", full.Content)
	}
}

func TestIngestEmbeddingFailureStillCatalogs(t *testing.T) {
	store := newMemStore()
	store.failing = true
	svc := newTestService(t, store)

	doc, err := svc.Ingest(context.Background(), "doc.txt", []byte("some text"))
	if err == nil {
		t.Fatal("expected embedding error")
	}
	if doc == nil {
		t.Fatal("document must still be cataloged")
	}
	if doc.ChunkCount != 0 {
		t.Errorf("unindexed doc must report zero chunks, got %d", doc.ChunkCount)
	}

	docs, listErr := svc.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(docs) != 1 {
		t.Fatalf("expected cataloged doc, got %d", len(docs))
	}
}

func TestReprocess(t *testing.T) {
	store := newMemStore()
	store.failing = true
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, _ := svc.Ingest(ctx, "doc.txt", []byte("recoverable text"))

	// Backend comes back; reprocess succeeds from stored text.
	store.failing = false
	redone, err := svc.Reprocess(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Reprocess: %v", err)
	}
	if redone.ChunkCount == 0 {
		t.Error("expected chunks after reprocess")
	}
	if len(store.chunks[doc.ID]) == 0 {
		t.Error("expected chunks in store after reprocess")
	}

	if _, err := svc.Reprocess(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesChunks(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, "doc.txt", []byte("short text"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.chunks[doc.ID]; ok {
		t.Error("chunks must be removed from the store")
	}
	if err := svc.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestIngestDir(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.md"), "# A\n\ncontent a")
	mustWrite(t, filepath.Join(root, "b.txt"), "content b")
	mustWrite(t, filepath.Join(root, "skip.bin"), "binary-ish")

	store := newMemStore()
	svc := newTestService(t, store)

	var seen []string
	stats, err := svc.IngestDir(context.Background(), root,
		[]string{"**/*.md", "**/*.txt"}, nil,
		func(f walker.FileInfo) { seen = append(seen, f.RelPath) })
	if err != nil {
		t.Fatalf("IngestDir: %v", err)
	}
	if stats.Files != 2 || stats.Failed != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Chunks == 0 {
		t.Error("expected indexed chunks")
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 progress callbacks, got %v", seen)
	}

	docs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 cataloged documents, got %d", len(docs))
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIngestEndpoint(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	srv := httptest.NewServer(r)
	defer srv.Close()

	body := bytes.NewBufferString(`{"filename": "notes.txt", "content": "ingested knowledge"}`)
	resp, err := http.Post(srv.URL+"/api/documents/ingest", "application/json", body)
	if err != nil {
		t.Fatalf("POST ingest: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var ingested ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&ingested); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !ingested.TextExtracted || !ingested.EmbeddingsGenerated {
		t.Errorf("unexpected ingest response: %+v", ingested)
	}

	// Missing filename is rejected.
	resp, err = http.Post(srv.URL+"/api/documents/ingest", "application/json",
		bytes.NewBufferString(`{"content": "orphaned"}`))
	if err != nil {
		t.Fatalf("POST ingest: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing filename, got %d", resp.StatusCode)
	}

	// Unsupported type is rejected.
	resp, err = http.Post(srv.URL+"/api/documents/ingest", "application/json",
		bytes.NewBufferString(`{"filename": "image.png", "content": "not text"}`))
	if err != nil {
		t.Fatalf("POST ingest: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unsupported type, got %d", resp.StatusCode)
	}
}
