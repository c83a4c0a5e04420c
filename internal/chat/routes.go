package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adnanhb/flowrag/internal/llm"
	"github.com/adnanhb/flowrag/internal/workflow"
)

// RegisterRoutes mounts the direct chat, model listing and chat history
// endpoints. engine must be built without an execution log store: direct
// chat queries are not workflow executions and are not audited.
func RegisterRoutes(r chi.Router, engine *workflow.Engine, pool *llm.Pool, history *HistoryStore) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/query", handleQuery(engine))
		r.Get("/models", handleModels(pool))
	})
	r.Post("/api/workflow/chat-history/save", handleSaveHistory(history))
	r.Get("/api/workflow/chat-history/{workflowID}", handleGetHistory(history))
	r.Delete("/api/workflow/chat-history/{workflowID}", handleClearHistory(history))
}

// Request is a direct chat query without a workflow definition.
type Request struct {
	Query            string   `json:"query"`
	PreferredModel   string   `json:"preferred_model,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	UseKnowledgeBase *bool    `json:"use_knowledge_base,omitempty"`
	MaxContextChunks *int     `json:"max_context_chunks,omitempty"`
}

// Response mirrors the workflow run result without execution metadata.
type Response struct {
	Response    string `json:"response"`
	ModelUsed   string `json:"model_used"`
	ContextUsed string `json:"context_used,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func handleQuery(engine *workflow.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}

		result := engine.Run(r.Context(), workflow.RunRequest{
			Query:            req.Query,
			PreferredModel:   req.PreferredModel,
			Temperature:      req.Temperature,
			UseKnowledgeBase: req.UseKnowledgeBase,
			MaxContextChunks: req.MaxContextChunks,
		})

		writeJSON(w, http.StatusOK, Response{
			Response:    result.Response,
			ModelUsed:   result.ModelUsed,
			ContextUsed: result.ContextUsed,
			Success:     result.Success,
			Error:       result.Error,
		})
	}
}

// modelCatalog lists the concrete models reachable through each provider.
var modelCatalog = map[string][]string{
	"openai": {"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"},
	"gemini": {"gemini-1.5-pro", "gemini-1.5-flash", "gemini-pro"},
}

type providerInfo struct {
	Available bool     `json:"available"`
	Models    []string `json:"models"`
}

func handleModels(pool *llm.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		availability := pool.Availability()

		out := make(map[string]providerInfo, len(availability))
		for name, available := range availability {
			out[name] = providerInfo{
				Available: available,
				Models:    modelCatalog[name],
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"available_models": out})
	}
}

type historyRequest struct {
	WorkflowID string    `json:"workflow_id"`
	Messages   []Message `json:"messages"`
}

type historyResponse struct {
	Messages []Message `json:"messages"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
}

func handleSaveHistory(store *HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req historyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.WorkflowID == "" {
			http.Error(w, "workflow_id is required", http.StatusBadRequest)
			return
		}

		if err := store.Save(r.Context(), req.WorkflowID, req.Messages); err != nil {
			writeJSON(w, http.StatusOK, historyResponse{Messages: []Message{}, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, historyResponse{Messages: req.Messages, Success: true})
	}
}

func handleGetHistory(store *HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := store.History(r.Context(), chi.URLParam(r, "workflowID"))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, historyResponse{Messages: []Message{}, Error: err.Error()})
			return
		}
		if messages == nil {
			messages = []Message{}
		}
		writeJSON(w, http.StatusOK, historyResponse{Messages: messages, Success: true})
	}
}

func handleClearHistory(store *HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context(), chi.URLParam(r, "workflowID")); err != nil {
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
