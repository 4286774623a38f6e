package mcpserver

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	srv "github.com/mark3labs/mcp-go/server"
)

func newHooks(logger hclog.Logger) *srv.Hooks {
	hooks := &srv.Hooks{}

	hooks.AddBeforeAny(func(_ context.Context, id any, method mcp.MCPMethod, message any) {
		logger.Debug("MCP request received", "id", id, "method", method)
		logger.Trace("MCP request", "id", id, "method", method, "request", message)
	})

	hooks.AddOnSuccess(func(_ context.Context, id any, method mcp.MCPMethod, _ any, result any) {
		logger.Debug("MCP request succeeded", "id", id, "method", method)
		logger.Trace("MCP response", "id", id, "method", method, "response", result)
	})

	hooks.AddOnError(func(_ context.Context, id any, method mcp.MCPMethod, _ any, err error) {
		logger.Error("MCP request failed", "id", id, "method", method, "error", err)
	})

	return hooks
}
