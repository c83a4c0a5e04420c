package documents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxIngestSize bounds the ingest request body (8 MB).
const maxIngestSize = 8 << 20

// RegisterRoutes mounts document endpoints under /api/documents.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/ingest", handleIngest(svc))
		r.Get("/", handleList(svc))
		r.Get("/{id}/text", handleGetText(svc))
		r.Post("/{id}/reprocess", handleReprocess(svc))
		r.Delete("/{id}", handleDelete(svc))
	})
}

type ingestRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ingestResponse struct {
	ID                  string `json:"id"`
	Filename            string `json:"filename"`
	TextExtracted       bool   `json:"text_extracted"`
	TextLength          int    `json:"text_length"`
	ChunksProcessed     int    `json:"chunks_processed"`
	EmbeddingsGenerated bool   `json:"embeddings_generated"`
	Error               string `json:"error,omitempty"`
}

func handleIngest(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxIngestSize)
		var req ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Filename == "" {
			http.Error(w, "filename is required", http.StatusBadRequest)
			return
		}

		doc, err := svc.Ingest(r.Context(), req.Filename, []byte(req.Content))
		if err != nil && doc == nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		resp := ingestResponse{
			ID:                  doc.ID,
			Filename:            doc.Filename,
			TextExtracted:       doc.Content != "",
			TextLength:          len(doc.Content),
			ChunksProcessed:     doc.ChunkCount,
			EmbeddingsGenerated: doc.ChunkCount > 0,
		}
		// Cataloged but not indexed: surface the embedding failure.
		if err != nil {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if docs == nil {
			docs = []Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func handleGetText(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.GetText(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":           doc.ID,
			"filename":     doc.Filename,
			"text_content": doc.Content,
			"text_length":  len(doc.Content),
		})
	}
}

func handleReprocess(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.Reprocess(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		if err != nil && doc == nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := ingestResponse{
			ID:                  doc.ID,
			Filename:            doc.Filename,
			TextExtracted:       doc.Content != "",
			TextLength:          len(doc.Content),
			ChunksProcessed:     doc.ChunkCount,
			EmbeddingsGenerated: doc.ChunkCount > 0,
		}
		if err != nil {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDelete(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
