package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jahirul76/reliefweb-mcp/internal/cmd"
	cmdopts "github.com/jahirul76/reliefweb-mcp/internal/cmd/options"
	"github.com/jahirul76/reliefweb-mcp/internal/config"
	"github.com/jahirul76/reliefweb-mcp/internal/flags"
	"github.com/jahirul76/reliefweb-mcp/internal/reliefweb"
)

// SearchReport is the structured rendering of a search, used by the json and yaml formats.
type SearchReport struct {
	Endpoint    string           `json:"endpoint" yaml:"endpoint"`
	Filter      string           `json:"filter" yaml:"filter"`
	SearchError string           `json:"searchError,omitempty" yaml:"searchError,omitempty"`
	Documents   []DocumentReport `json:"documents" yaml:"documents"`

	// raw is the aggregated JSON array as returned by the MCP tools.
	raw string
}

// DocumentReport describes one fetched document.
// Content holds the decoded JSON body, or the raw text when the body is not JSON.
type DocumentReport struct {
	Href    string `json:"href" yaml:"href"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Content any    `json:"content" yaml:"content"`
}

type SearchCmd struct {
	*cmd.BaseCmd
	endpoint        reliefweb.Endpoint
	cfgLoader       config.Loader
	searcherBuilder cmd.SearcherBuilder
	params          reliefweb.SearchParams
	format          cmd.OutputFormat
}

// NewSearchCmd returns the 'search' command group with one subcommand per ReliefWeb endpoint.
func NewSearchCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "search <endpoint>",
		Short: "Runs a single ReliefWeb search and prints the fetched documents",
		Long: "Runs the same search as the MCP tools once and prints the result.\n\n" +
			"The default text format prints the aggregated JSON array exactly as the tools return it.",
	}

	for _, endpoint := range []reliefweb.Endpoint{reliefweb.EndpointDisasters, reliefweb.EndpointReports} {
		sub, err := newSearchEndpointCmd(baseCmd, endpoint, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(sub)
	}

	return cobraCmd, nil
}

func newSearchEndpointCmd(
	baseCmd *cmd.BaseCmd,
	endpoint reliefweb.Endpoint,
	opt ...cmdopts.CmdOption,
) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &SearchCmd{
		BaseCmd:         baseCmd,
		endpoint:        endpoint,
		cfgLoader:       opts.ConfigLoader,
		searcherBuilder: opts.SearcherBuilder,
		format:          cmd.FormatText, // Default to the raw array
	}

	cobraCmd := &cobra.Command{
		Use:   endpoint.String(),
		Short: fmt.Sprintf("Searches ReliefWeb %s", endpoint.String()),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().StringVar(&c.params.Query, "query", "", "free-text search term")
	cobraCmd.Flags().StringVar(&c.params.CountryName, "country", "", "country name, e.g. 'Sudan'")
	cobraCmd.Flags().StringVar(&c.params.StartDate, "start-date", "", "minimum creation date, e.g. 2024-01-01")

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *SearchCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, writeRawResult)
	if err != nil {
		return err
	}

	logger, err := c.Logger()
	if err != nil {
		return handler.HandleError(err)
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return handler.HandleError(err)
	}

	if err := cfg.RequireAppName(); err != nil {
		return handler.HandleError(err)
	}

	searcher, err := c.searcherBuilder.BuildSearcher(cfg)
	if err != nil {
		return handler.HandleError(err)
	}

	result, err := searcher.Search(cobraCmd.Context(), c.endpoint, c.params)
	if err != nil {
		return handler.HandleError(err)
	}

	if result.SearchErr != nil {
		logger.Warn("Search failed", "endpoint", c.endpoint.String(), "error", result.SearchErr)
	}

	return handler.HandleResult(NewSearchReport(result))
}

// writeRawResult prints the aggregated JSON array followed by a newline.
func writeRawResult(w io.Writer, report SearchReport) error {
	_, err := fmt.Fprintln(w, report.raw)
	return err
}

// NewSearchReport converts a search result into its structured form.
func NewSearchReport(result reliefweb.Result) SearchReport {
	report := SearchReport{
		Endpoint:  result.Endpoint.String(),
		Filter:    result.Filter,
		Documents: make([]DocumentReport, 0, len(result.Documents)),
		raw:       result.JSON(),
	}
	if result.SearchErr != nil {
		report.SearchError = result.SearchErr.Error()
	}

	for _, d := range result.Documents {
		doc := DocumentReport{Href: d.Href}
		if d.Err != nil {
			doc.Error = d.Err.Error()
		}

		var content any
		if err := json.Unmarshal([]byte(d.Body), &content); err != nil {
			doc.Content = d.Body
		} else {
			doc.Content = content
		}

		report.Documents = append(report.Documents, doc)
	}

	return report
}
