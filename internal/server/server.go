// Package server assembles the HTTP API: workflow execution, documents,
// chat and execution logs behind one chi router.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/adnanhb/flowrag/internal/chat"
	"github.com/adnanhb/flowrag/internal/config"
	"github.com/adnanhb/flowrag/internal/db"
	"github.com/adnanhb/flowrag/internal/documents"
	"github.com/adnanhb/flowrag/internal/execlog"
	"github.com/adnanhb/flowrag/internal/llm"
	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/websearch"
	"github.com/adnanhb/flowrag/internal/workflow"
)

// Server is the flowrag HTTP backend.
type Server struct {
	cfg        *config.Config
	db         *db.DB
	router     chi.Router
	httpServer *http.Server
}

// New wires every feature package into one server. searcher may be nil when
// no web search credential is configured.
func New(cfg *config.Config, database *db.DB, store vectordb.VectorStore, searcher websearch.Searcher, pool *llm.Pool) *Server {
	s := &Server{cfg: cfg, db: database}

	defaults := workflow.Settings{
		Model:            string(cfg.DefaultModel),
		Temperature:      cfg.Temperature,
		UseKnowledgeBase: cfg.UseKnowledgeBase,
		MaxContextChunks: cfg.MaxContextChunks,
		WebResultCount:   cfg.WebResultCount,
	}

	execStore := execlog.NewStore(database)
	engine := workflow.NewEngine(store, searcher, pool, execStore, defaults, log.Printf)
	// Direct chat shares the pipeline but is not recorded as an execution.
	chatEngine := workflow.NewEngine(store, searcher, pool, nil, defaults, log.Printf)

	docSvc := documents.NewService(database, store, documents.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		PersistDir:   cfg.DataDir,
	}, log.Printf)

	r := s.buildRouter()
	workflow.RegisterRoutes(r, engine, workflow.NewStore(database))
	execlog.RegisterRoutes(r, execStore)
	documents.RegisterRoutes(r, docSvc)
	chat.RegisterRoutes(r, chatEngine, pool, chat.NewHistoryStore(database))

	s.router = r
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"flowrag backend is running"}`))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port and blocks until the server
// stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("flowrag server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
