package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeBaseTool defines the search_knowledge_base MCP tool.
var searchKnowledgeBaseTool = mcp.NewTool("search_knowledge_base",
	mcp.WithDescription("Search the ingested document knowledge base semantically. Returns the most relevant chunks with their source filenames."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of chunks to return (default 5)"),
	),
)

// runWorkflowTool defines the run_workflow MCP tool.
var runWorkflowTool = mcp.NewTool("run_workflow",
	mcp.WithDescription("Answer a question using the retrieval pipeline: knowledge base context is assembled and a generation backend produces the answer."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithString("model",
		mcp.Description("Preferred backend (default auto)"),
		mcp.Enum("auto", "openai", "gemini"),
	),
	mcp.WithBoolean("use_knowledge_base",
		mcp.Description("Whether to ground the answer in the knowledge base (default true)"),
	),
)
