package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jahirul76/reliefweb-mcp/internal/reliefweb"
)

const (
	// ToolSearchDisasters is the name of the search_disasters tool.
	ToolSearchDisasters = "search_disasters"

	// ToolSearchReports is the name of the search_reports tool.
	ToolSearchReports = "search_reports"

	argQuery       = "query"
	argCountryName = "country_name"
	argStartDate   = "start_date"
)

// SearchTool implements a ReliefWeb search tool bound to a single endpoint.
type SearchTool struct {
	name        string
	description string
	endpoint    reliefweb.Endpoint
	searcher    Searcher
	logger      hclog.Logger
}

// NewSearchDisastersTool returns the search_disasters tool.
func NewSearchDisastersTool(searcher Searcher, logger hclog.Logger) (*SearchTool, error) {
	return newSearchTool(
		ToolSearchDisasters,
		"get disaster information from the United Nations Emergency Events Classification",
		reliefweb.EndpointDisasters,
		searcher,
		logger,
	)
}

// NewSearchReportsTool returns the search_reports tool.
func NewSearchReportsTool(searcher Searcher, logger hclog.Logger) (*SearchTool, error) {
	return newSearchTool(
		ToolSearchReports,
		"get report and update from ReliefWeb (United Nations emergency reports).",
		reliefweb.EndpointReports,
		searcher,
		logger,
	)
}

func newSearchTool(
	name string,
	description string,
	endpoint reliefweb.Endpoint,
	searcher Searcher,
	logger hclog.Logger,
) (*SearchTool, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}

	return &SearchTool{
		name:        name,
		description: description,
		endpoint:    endpoint,
		searcher:    searcher,
		logger:      logger.Named(name),
	}, nil
}

// Name returns the MCP tool name.
func (t *SearchTool) Name() string {
	return t.name
}

// Definition returns the MCP metadata describing the tool.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		t.name,
		mcp.WithDescription(t.description),
		mcp.WithString(
			argQuery,
			mcp.Description("Free-text search query, may be empty."),
		),
		mcp.WithString(
			argCountryName,
			mcp.Description("Country name to filter on (e.g. 'Sudan'), may be empty."),
		),
		mcp.WithString(
			argStartDate,
			mcp.Description("Only include entries created on or after this date (e.g. '2023-01-01'), may be empty."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// Handle runs the search and returns the fetched documents as a JSON array.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var params reliefweb.SearchParams
	for _, a := range []struct {
		name string
		dst  *string
	}{
		{argQuery, &params.Query},
		{argCountryName, &params.CountryName},
		{argStartDate, &params.StartDate},
	} {
		v, err := stringArg(args, a.name)
		if err != nil {
			t.logger.Warn("Rejected tool call", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		*a.dst = v
	}

	start := time.Now()
	t.logger.Debug(
		"Search started",
		"query", params.Query,
		"country_name", params.CountryName,
		"start_date", params.StartDate,
	)

	result, err := t.searcher.Search(ctx, t.endpoint, params)
	if err != nil {
		t.logger.Error("Search failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	// Upstream failures are reported as data, the caller always receives an array.
	if result.SearchErr != nil {
		t.logger.Warn("Search request failed, returning no documents", "error", result.SearchErr)
	}

	t.logger.Debug(
		"Search completed",
		"documents", len(result.Documents),
		"failed_documents", result.FailedDocuments(),
		"duration", time.Since(start),
	)

	return mcp.NewToolResultText(result.JSON()), nil
}

// stringArg returns the named argument, treating an absent or null value as empty.
// Any other non-string value is an error.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}

	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument '%s' must be a string", name)
	}

	return str, nil
}
