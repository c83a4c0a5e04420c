package workflow

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts workflow execution and CRUD endpoints on the router.
func RegisterRoutes(r chi.Router, engine *Engine, store *Store) {
	r.Route("/api/workflow", func(r chi.Router) {
		r.Post("/run", handleRun(engine))
		r.Post("/workflows/save", handleSave(store))
		r.Get("/workflows", handleList(store))
		r.Get("/workflows/{id}", handleGet(store))
		r.Delete("/workflows/{id}", handleDelete(store))
		r.Get("/templates", handleTemplates)
		r.Get("/templates/{id}", handleTemplate)
	})
}

func handleRun(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}

		result := engine.Run(r.Context(), req)
		writeJSON(w, http.StatusOK, result)
	}
}

type saveRequest struct {
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
}

type saveResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func handleSave(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		id, err := store.Save(r.Context(), req.Name, req.Definition)
		if err != nil {
			writeJSON(w, http.StatusOK, saveResponse{Name: req.Name, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, saveResponse{ID: id, Name: req.Name, Success: true})
	}
}

type loadResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
	CreatedAt  time.Time       `json:"created_at"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		wf, err := store.Get(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, loadResponse{Error: "Workflow not found"})
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, loadResponse{
			ID:         wf.ID,
			Name:       wf.Name,
			Definition: wf.Definition,
			CreatedAt:  wf.CreatedAt,
			Success:    true,
		})
	}
}

type listResponse struct {
	Workflows []ListItem `json:"workflows"`
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := store.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, listResponse{Workflows: []ListItem{}, Error: err.Error()})
			return
		}
		if items == nil {
			items = []ListItem{}
		}
		writeJSON(w, http.StatusOK, listResponse{Workflows: items, Success: true})
	}
}

type templateListResponse struct {
	Templates []Template `json:"templates"`
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
}

func handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templateListResponse{Templates: Templates(), Success: true})
}

func handleTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return
	}
	tpl, ok := TemplateByID(id)
	if !ok {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := store.Delete(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "workflow not found", http.StatusNotFound)
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
