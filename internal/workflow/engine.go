package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adnanhb/flowrag/internal/execlog"
	"github.com/adnanhb/flowrag/internal/llm"
	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/websearch"
)

// Settings are the fully resolved execution parameters for one run. They are
// built from engine defaults, then request fields, then the llmEngine node
// config, with later layers winning.
type Settings struct {
	Model            string
	Temperature      float64
	UseKnowledgeBase bool
	MaxContextChunks int
	UseWebSearch     bool
	WebResultCount   int
}

// RunRequest is one workflow execution request.
type RunRequest struct {
	Workflow         Definition `json:"workflow"`
	WorkflowID       string     `json:"workflow_id,omitempty"`
	Query            string     `json:"query"`
	PreferredModel   string     `json:"preferred_model,omitempty"`
	Temperature      *float64   `json:"temperature,omitempty"`
	UseKnowledgeBase *bool      `json:"use_knowledge_base,omitempty"`
	MaxContextChunks *int       `json:"max_context_chunks,omitempty"`
}

// RunResult is the outcome of one workflow execution.
type RunResult struct {
	Response      string  `json:"response"`
	ModelUsed     string  `json:"model_used"`
	ContextUsed   string  `json:"context_used,omitempty"`
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
}

// Engine executes workflow definitions. The vector store and web searcher
// are optional; a nil dependency simply disables that context source.
type Engine struct {
	store    vectordb.VectorStore
	searcher websearch.Searcher
	pool     *llm.Pool
	logs     *execlog.Store
	defaults Settings
	logf     func(format string, args ...any)
}

// NewEngine creates an Engine. logs may be nil to disable execution logging
// (used by the direct chat path); logf may be nil to discard diagnostics.
func NewEngine(store vectordb.VectorStore, searcher websearch.Searcher, pool *llm.Pool, logs *execlog.Store, defaults Settings, logf func(format string, args ...any)) *Engine {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Engine{
		store:    store,
		searcher: searcher,
		pool:     pool,
		logs:     logs,
		defaults: defaults,
		logf:     logf,
	}
}

// Run executes one workflow request and records the outcome in the execution
// log regardless of success. Retrieval failures never abort the run; they
// are logged and generation proceeds with whatever context was assembled.
func (e *Engine) Run(ctx context.Context, req RunRequest) RunResult {
	start := time.Now()

	settings := e.resolve(req)
	contextText := e.assembleContext(ctx, req.Query, settings)

	gen := e.pool.Generate(ctx, req.Query, contextText, settings.Model, settings.Temperature)
	elapsed := time.Since(start).Seconds()

	if e.logs != nil {
		err := e.logs.Log(ctx, execlog.Entry{
			WorkflowID:    req.WorkflowID,
			Query:         req.Query,
			Response:      gen.Response,
			ModelUsed:     gen.ModelUsed,
			Success:       gen.Success,
			Error:         gen.Error,
			ExecutionTime: elapsed,
		})
		if err != nil {
			e.logf("recording execution log: %v", err)
		}
	}

	return RunResult{
		Response:      gen.Response,
		ModelUsed:     gen.ModelUsed,
		ContextUsed:   contextText,
		Success:       gen.Success,
		Error:         gen.Error,
		ExecutionTime: elapsed,
	}
}

// resolve layers the request fields and the llmEngine node config over the
// engine defaults. The node config wins for every setting it carries.
func (e *Engine) resolve(req RunRequest) Settings {
	s := e.defaults

	if req.PreferredModel != "" {
		s.Model = req.PreferredModel
	}
	if req.Temperature != nil {
		s.Temperature = *req.Temperature
	}
	if req.UseKnowledgeBase != nil {
		s.UseKnowledgeBase = *req.UseKnowledgeBase
	}
	if req.MaxContextChunks != nil {
		s.MaxContextChunks = *req.MaxContextChunks
	}

	node, extra := req.Workflow.llmEngineNode()
	if node == nil {
		return s
	}
	if extra > 0 {
		e.logf("workflow has %d extra llmEngine nodes, using %s", extra, node.ID)
	}

	cfg, ok := req.Workflow.Configs[node.ID]
	if !ok {
		return s
	}
	if cfg.Model != nil && *cfg.Model != "" {
		s.Model = *cfg.Model
	}
	if cfg.Temperature != nil {
		s.Temperature = *cfg.Temperature
	}
	if cfg.UseKnowledgeBase != nil {
		s.UseKnowledgeBase = *cfg.UseKnowledgeBase
	}
	if cfg.MaxContextChunks != nil && *cfg.MaxContextChunks > 0 {
		s.MaxContextChunks = *cfg.MaxContextChunks
	}
	if cfg.UseWebSearch != nil {
		s.UseWebSearch = *cfg.UseWebSearch
	}
	return s
}

// assembleContext gathers knowledge base chunks and web results, running the
// two lookups concurrently when both are enabled. Either source failing
// yields an empty contribution, never an error.
func (e *Engine) assembleContext(ctx context.Context, query string, s Settings) string {
	var (
		wg         sync.WaitGroup
		kbContext  string
		webContext string
	)

	if s.UseKnowledgeBase && e.store != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kbContext = e.knowledgeContext(ctx, query, s.MaxContextChunks)
		}()
	}
	if s.UseWebSearch && e.searcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			webContext = e.webContext(ctx, query, s.WebResultCount)
		}()
	}
	wg.Wait()

	if kbContext == "" {
		return webContext
	}
	if webContext == "" {
		return kbContext
	}
	return kbContext + "\n\n" + webContext
}

func (e *Engine) knowledgeContext(ctx context.Context, query string, limit int) string {
	results, err := e.store.Query(ctx, query, limit)
	if err != nil {
		e.logf("error searching knowledge base: %v", err)
		return ""
	}

	var parts []string
	for i, r := range results {
		if r.Chunk.Content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("Context %d: %s", i+1, r.Chunk.Content))
	}
	return strings.Join(parts, "\n\n")
}

func (e *Engine) webContext(ctx context.Context, query string, count int) string {
	results, err := e.searcher.Search(ctx, query, count)
	if err != nil {
		e.logf("web search error: %v", err)
		return ""
	}

	var parts []string
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("Web Result %d: %s", i+1, r))
	}
	return strings.Join(parts, "\n\n")
}
