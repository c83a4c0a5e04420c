package execlog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts execution log read endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/workflow/execution-logs", handleList(store))
	r.Get("/api/workflow/execution-logs/{workflowID}", handleListByWorkflow(store))
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.Query(r.Context(), filterFromQuery(r))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logs": emptyToSlice(entries)})
	}
}

func handleListByWorkflow(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := filterFromQuery(r)
		filter.WorkflowID = chi.URLParam(r, "workflowID")

		entries, err := store.Query(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logs": emptyToSlice(entries)})
	}
}

func filterFromQuery(r *http.Request) QueryFilter {
	q := r.URL.Query()

	filter := QueryFilter{Limit: 50}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Since = &t
		}
	}
	if q.Get("success") == "true" {
		filter.SuccessOnly = true
	}
	return filter
}

func emptyToSlice(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	return entries
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
