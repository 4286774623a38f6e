// Package mcpserver exposes tools to an MCP host over the standard input/output channel.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	srv "github.com/mark3labs/mcp-go/server"

	"github.com/jahirul76/reliefweb-mcp/internal/tools"
)

// Name is the server name reported to MCP hosts.
const Name = "reliefweb"

// Server wraps the MCP server state for the stdio transport.
type Server struct {
	mcp    *srv.MCPServer
	logger hclog.Logger
}

// NewServer constructs an MCP server with the given tools registered.
func NewServer(logger hclog.Logger, version string, toolset ...tools.Tool) (*Server, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if len(toolset) == 0 {
		return nil, errors.New("at least one tool is required")
	}

	l := logger.Named("mcp")

	mcpServer := srv.NewMCPServer(
		Name,
		version,
		srv.WithToolCapabilities(false),
		srv.WithInstructions(
			"Use search_disasters and search_reports to look up humanitarian information published by ReliefWeb. "+
				"Both accept an optional free-text query, country name and minimum creation date (YYYY-MM-DD).",
		),
		srv.WithRecovery(),
		srv.WithHooks(newHooks(l.Named("hooks"))),
	)

	seen := make(map[string]struct{}, len(toolset))
	for _, t := range toolset {
		if t == nil {
			return nil, errors.New("tool cannot be nil")
		}

		def := t.Definition()
		if _, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("duplicate tool name '%s'", def.Name)
		}
		seen[def.Name] = struct{}{}

		mcpServer.AddTool(def, t.Handle)
		l.Debug("Registered tool", "name", def.Name)
	}

	return &Server{
		mcp:    mcpServer,
		logger: l,
	}, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *srv.MCPServer {
	return s.mcp
}

// Serve reads MCP messages from in and writes responses to out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := srv.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLogger(&hclog.StandardLoggerOptions{
		InferLevels: true,
		ForceLevel:  hclog.Error,
	}))

	s.logger.Info("Serving MCP over stdio")

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server: %w", err)
	}

	s.logger.Info("MCP server stopped")
	return nil
}
