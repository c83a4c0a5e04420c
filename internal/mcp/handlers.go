package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/workflow"
)

// handleSearchKnowledgeBase performs semantic search over the document store.
func (s *Server) handleSearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.store.Query(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The knowledge base may be empty. Run `flowrag ingest` to index documents."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleRunWorkflow answers a question through the retrieval pipeline.
func (s *Server) handleRunWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	req := workflow.RunRequest{
		Query:          query,
		PreferredModel: request.GetString("model", ""),
	}
	if useKB := request.GetBool("use_knowledge_base", true); !useKB {
		req.UseKnowledgeBase = &useKB
	}

	result := s.engine.Run(ctx, req)
	if !result.Success {
		return mcp.NewToolResultError(result.Error), nil
	}

	var sb strings.Builder
	sb.WriteString(result.Response)
	sb.WriteString(fmt.Sprintf("\n\n(answered by %s", result.ModelUsed))
	if result.ContextUsed != "" {
		sb.WriteString(" using knowledge base context")
	}
	sb.WriteString(")")
	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResults converts search results into text optimized for AI
// agent consumption.
func formatSearchResults(results []vectordb.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		if r.Chunk.Metadata.Filename != "" {
			sb.WriteString(fmt.Sprintf("Source: %s (chunk %d)\n", r.Chunk.Metadata.Filename, r.Chunk.Metadata.ChunkIndex))
		}
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", r.Similarity*100))
		sb.WriteString("\n")
		sb.WriteString(r.Chunk.Content)
		sb.WriteString("\n")
	}

	return sb.String()
}
