package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jahirul76/reliefweb-mcp/internal/reliefweb"
)

// Tool exposes the capabilities required by the MCP server registration lifecycle.
type Tool interface {
	Definition() mcp.Tool
	Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Searcher runs a ReliefWeb search and fetches the listed documents.
type Searcher interface {
	Search(ctx context.Context, endpoint reliefweb.Endpoint, params reliefweb.SearchParams) (reliefweb.Result, error)
}
