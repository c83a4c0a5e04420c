// Package mcp exposes the knowledge base and workflow engine to AI agents
// over the Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/adnanhb/flowrag/internal/vectordb"
	"github.com/adnanhb/flowrag/internal/workflow"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing knowledge base search and workflow
// execution tools.
type Server struct {
	store  vectordb.VectorStore
	engine *workflow.Engine
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(store vectordb.VectorStore, engine *workflow.Engine) *Server {
	s := &Server{
		store:  store,
		engine: engine,
	}

	s.mcp = server.NewMCPServer(
		"flowrag",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeBaseTool, s.handleSearchKnowledgeBase)
	s.mcp.AddTool(runWorkflowTool, s.handleRunWorkflow)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
